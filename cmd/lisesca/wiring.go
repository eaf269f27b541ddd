package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/andybrandt/lisesca/internal/config"
	"github.com/andybrandt/lisesca/internal/domain/entity"
	"github.com/andybrandt/lisesca/internal/domain/model"
	"github.com/andybrandt/lisesca/internal/infra/crawler/chrome"
	"github.com/andybrandt/lisesca/internal/infra/crawler/detail"
	"github.com/andybrandt/lisesca/internal/infra/crawler/listing"
	"github.com/andybrandt/lisesca/internal/infra/embedding"
	"github.com/andybrandt/lisesca/internal/infra/export"
	"github.com/andybrandt/lisesca/internal/infra/llm"
	"github.com/andybrandt/lisesca/internal/infra/persistence/checkpoint"
	"github.com/andybrandt/lisesca/internal/infra/persistence/es"
	"github.com/andybrandt/lisesca/internal/service/evaluate"
	"github.com/andybrandt/lisesca/internal/service/session"
	"github.com/andybrandt/lisesca/param"
)

func openStore() (*checkpoint.Store, error) {
	return checkpoint.Open(appcfg.Checkpoint.Path)
}

// buildRunner 组装完整的采集管线,cleanup负责关闭浏览器
func buildRunner(ctx context.Context, store *checkpoint.Store,
	sp *param.Start) (*session.Pipeline, func(), error) {
	criteria, err := config.LoadCriteria(sp.CriteriaPath)
	if err != nil {
		return nil, nil, err
	}

	var browser chrome.Browser
	switch appcfg.Browser {
	case "rod":
		browser, err = chrome.InitRodBrowser(appcfg)
		if err != nil {
			return nil, nil, fmt.Errorf("初始化rod浏览器失败: %w", err)
		}
	default:
		browser = chrome.InitChromedpBrowser(ctx, appcfg)
	}
	cleanup := func() { browser.Close() }

	fetcher := detail.InitFetcher(appcfg)
	source := listing.InitSource(browser, fetcher, entity.Mode(sp.Mode), criteria)

	eval, err := buildEvaluator(ctx, sp.Strategy, criteria)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	sink, err := buildExportManager(ctx, entity.Mode(sp.Mode), sp.Formats)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return session.InitPipeline(source, eval, store, sink), cleanup, nil
}

// buildFinalizer 收尾专用的管线,不初始化浏览器与评估器
func buildFinalizer(ctx context.Context, store *checkpoint.Store,
	cp *checkpoint.Checkpoint) (*session.Pipeline, error) {
	sink, err := buildExportManager(ctx, cp.Mode, cp.Formats)
	if err != nil {
		return nil, err
	}
	return session.InitPipeline(nil, evaluate.InitNoopEvaluator(), store, sink), nil
}

func buildEvaluator(ctx context.Context, strategy string,
	criteria *config.Criteria) (session.Evaluator, error) {
	if strategy == "" {
		return evaluate.InitNoopEvaluator(), nil
	}
	var (
		llmClient llm.LLM
		err       error
	)
	switch appcfg.LLM.Provider {
	case "gemini":
		llmClient, err = llm.InitGeminiLLM(ctx, appcfg)
	default:
		llmClient, err = llm.InitOllamaLLM(ctx, appcfg)
	}
	if err != nil {
		return nil, fmt.Errorf("初始化评估模型失败: %w", err)
	}
	return evaluate.InitEvaluator(llmClient, criteria), nil
}

// buildExportManager 按会话选择的格式组装导出器
// es导出需要嵌入器与按模式类型化的客户端,仅在选择es时初始化
func buildExportManager(ctx context.Context, mode entity.Mode,
	formats []string) (*export.Manager, error) {
	exporters := []export.Exporter{
		export.InitCSVExporter(appcfg.Export.Dir),
		export.InitMarkdownExporter(appcfg.Export.Dir),
		export.InitXLSXExporter(appcfg.Export.Dir),
	}
	if slices.Contains(formats, "es") {
		embedder, err := embedding.InitEmbedder(ctx, appcfg)
		if err != nil {
			return nil, fmt.Errorf("初始化Embedder失败: %w", err)
		}
		esExporter, err := buildESExporter(mode, embedder)
		if err != nil {
			return nil, err
		}
		exporters = append(exporters, esExporter)
	}
	return export.InitManager(exporters...), nil
}

func buildESExporter(mode entity.Mode, embedder embedding.Embedder) (export.Exporter, error) {
	if mode == entity.ModeJobs {
		client, err := es.InitTypedEsClient[*model.JobDoc](appcfg)
		if err != nil {
			return nil, err
		}
		return export.InitESExporter(client, embedder,
			func(rec *entity.Record) entity.Crawlable[*model.JobDoc] {
				if rec.Job == nil {
					return nil
				}
				return rec.Job
			}), nil
	}
	client, err := es.InitTypedEsClient[*model.ProfileDoc](appcfg)
	if err != nil {
		return nil, err
	}
	return export.InitESExporter(client, embedder,
		func(rec *entity.Record) entity.Crawlable[*model.ProfileDoc] {
			if rec.Profile == nil {
				return nil
			}
			return rec.Profile
		}), nil
}

// printESCounts 查询两个索引的文档数,ES不可达时只打印错误
func printESCounts(ctx context.Context) {
	profileClient, err := es.InitTypedEsClient[*model.ProfileDoc](appcfg)
	if err != nil {
		log.Printf("初始化ES客户端失败: %v", err)
		return
	}
	if n, err := profileClient.CountDocs(ctx); err != nil {
		log.Printf("查询人脉索引失败: %v", err)
	} else {
		fmt.Printf("ES人脉索引: %d 篇文档\n", n)
	}
	jobClient, err := es.InitTypedEsClient[*model.JobDoc](appcfg)
	if err != nil {
		log.Printf("初始化ES客户端失败: %v", err)
		return
	}
	if n, err := jobClient.CountDocs(ctx); err != nil {
		log.Printf("查询职位索引失败: %v", err)
	} else {
		fmt.Printf("ES职位索引: %d 篇文档\n", n)
	}
}

// runWithSignals 第一次中断请求优雅停止,第二次立即取消
// 取消等价于崩溃: 检查点仍然有效,resume可以继续
func runWithSignals(ctx context.Context, pipeline *session.Pipeline) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		log.Printf("收到中断信号, 将在当前条目处理完后优雅停止, 再按一次立即退出")
		pipeline.RequestStop()
		<-sigCh
		log.Printf("强制退出, 会话可resume继续")
		cancel()
	}()

	return pipeline.Run(ctx)
}
