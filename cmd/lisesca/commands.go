package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/andybrandt/lisesca/internal/infra/persistence/checkpoint"
	"github.com/andybrandt/lisesca/param"
)

var startParam param.Start

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "开始一次新的采集会话",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := startParam.Validate(); err != nil {
			return err
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		pipeline, cleanup, err := buildRunner(ctx, store, &startParam)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := pipeline.Start(ctx, &startParam); err != nil {
			return err
		}
		return runWithSignals(ctx, pipeline)
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "恢复检查点中的未完成会话",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		cp, err := store.LoadCheckpoint(ctx)
		if err != nil {
			return err
		}
		if cp == nil {
			log.Printf("没有待恢复的会话")
			return nil
		}
		if !cp.Active {
			// 只剩收尾工作,不需要浏览器
			pipeline, err := buildFinalizer(ctx, store, cp)
			if err != nil {
				return err
			}
			_, err = pipeline.RunBoot(ctx)
			return err
		}

		sp := &param.Start{
			Mode:         string(cp.Mode),
			URL:          cp.PageURL(cp.CurrentPage),
			TargetPages:  cp.TargetPages,
			Formats:      cp.Formats,
			IncludeSeen:  cp.IncludeSeen,
			Strategy:     cp.Strategy,
			CriteriaPath: cp.CriteriaPath,
		}
		pipeline, cleanup, err := buildRunner(ctx, store, sp)
		if err != nil {
			return err
		}
		defer cleanup()
		log.Printf("恢复会话: %s, 第 %d 页, 游标 %d/%d",
			cp.SessionID, cp.CurrentPage, cp.ItemIndex, len(cp.ItemIDs))
		return runWithSignals(ctx, pipeline)
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "停止未完成会话并导出已缓冲的结果",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore()
		if errors.Is(err, checkpoint.ErrLocked) {
			return fmt.Errorf("采集实例正在运行, 请在其终端按Ctrl-C优雅停止")
		}
		if err != nil {
			return err
		}
		defer store.Close()

		cp, err := store.LoadCheckpoint(ctx)
		if err != nil {
			return err
		}
		if cp == nil {
			log.Printf("没有未完成的会话")
			return nil
		}
		cp.Active = false
		if err := store.SaveCheckpoint(ctx, cp); err != nil {
			return err
		}
		pipeline, err := buildFinalizer(ctx, store, cp)
		if err != nil {
			return err
		}
		_, err = pipeline.RunBoot(ctx)
		return err
	},
}

var statusES bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "查看当前会话的检查点状态",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore()
		if errors.Is(err, checkpoint.ErrLocked) {
			fmt.Println("采集实例正在运行, 检查点库已锁定")
			return nil
		}
		if err != nil {
			return err
		}
		defer store.Close()

		cp, err := store.LoadCheckpoint(ctx)
		if err != nil {
			return err
		}
		if cp == nil {
			fmt.Println("没有未完成的会话")
		} else {
			printStatus(ctx, store, cp)
		}
		if statusES {
			printESCounts(ctx)
		}
		return nil
	},
}

func printStatus(ctx context.Context, store *checkpoint.Store, cp *checkpoint.Checkpoint) {
	fmt.Printf("会话:     %s\n", cp.SessionID)
	fmt.Printf("模式:     %s\n", cp.Mode)
	fmt.Printf("状态:     %s\n", stateLabel(cp))
	fmt.Printf("页面:     第 %d 页 (起始 %d, 目标 %d)\n",
		cp.CurrentPage, cp.StartPage, cp.TargetPages)
	fmt.Printf("页内游标: %d/%d\n", cp.ItemIndex, len(cp.ItemIDs))
	fmt.Printf("评估统计: 已评估 %d, 已接受 %d\n", cp.Evaluated, cp.Accepted)
	if cp.LastDetailURL != "" {
		fmt.Printf("最后详情: %s\n", cp.LastDetailURL)
	}
	if n, err := store.ResultCount(ctx, cp.SessionID); err == nil {
		fmt.Printf("结果缓冲: %d 条待导出\n", n)
	}
}

func stateLabel(cp *checkpoint.Checkpoint) string {
	if !cp.Active {
		return "待收尾"
	}
	if !cp.PageSnapshotted() {
		return "待加载页面"
	}
	if !cp.PageExhausted() {
		return "条目遍历中"
	}
	return "待翻页"
}

func init() {
	startCmd.Flags().StringVar(&startParam.Mode, "mode", "", "采集模式 profiles | jobs")
	startCmd.Flags().StringVar(&startParam.URL, "url", "", "列表页地址")
	startCmd.Flags().IntVar(&startParam.TargetPages, "pages", 0, "目标页数, 0表示直到没有下一页")
	startCmd.Flags().StringSliceVar(&startParam.Formats, "format", []string{"xlsx"},
		"导出格式, 可多选: xlsx csv markdown es")
	startCmd.Flags().BoolVar(&startParam.IncludeSeen, "include-seen", false,
		"职位模式下包含历史会话已见条目")
	startCmd.Flags().StringVar(&startParam.Strategy, "strategy", "",
		"评估策略 tiered | binary, 空值表示不筛选")
	startCmd.Flags().StringVar(&startParam.CriteriaPath, "criteria", "", "筛选标准YAML文件路径")
	_ = startCmd.MarkFlagRequired("mode")
	_ = startCmd.MarkFlagRequired("url")

	statusCmd.Flags().BoolVar(&statusES, "es", false, "同时查询ES索引中的文档数")
}
