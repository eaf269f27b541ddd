package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andybrandt/lisesca/internal/domain/entity"
	"github.com/andybrandt/lisesca/internal/infra/persistence/checkpoint"
	"github.com/andybrandt/lisesca/internal/service/evaluate"
	"github.com/andybrandt/lisesca/param"
)

// fakeStore 内存实现,读写都走JSON深拷贝,模拟真实落盘的隔离性
type fakeStore struct {
	raw     []byte
	results []*entity.Record
	seen    map[string]bool
	cleared bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{seen: make(map[string]bool)}
}

func (s *fakeStore) LoadCheckpoint(ctx context.Context) (*checkpoint.Checkpoint, error) {
	if s.raw == nil {
		return nil, nil
	}
	var cp checkpoint.Checkpoint
	if err := json.Unmarshal(s.raw, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *fakeStore) SaveCheckpoint(ctx context.Context, cp *checkpoint.Checkpoint) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return err
	}
	s.raw = data
	return nil
}

func (s *fakeStore) ClearSession(ctx context.Context, sessionID string) error {
	s.raw = nil
	s.results = nil
	s.cleared = true
	return nil
}

func (s *fakeStore) AppendResult(ctx context.Context, sessionID string, rec *entity.Record) error {
	s.results = append(s.results, rec)
	return nil
}

func (s *fakeStore) Results(ctx context.Context, sessionID string) ([]*entity.Record, error) {
	return append([]*entity.Record(nil), s.results...), nil
}

func (s *fakeStore) MarkSeen(ctx context.Context, mode entity.Mode, itemID string) error {
	s.seen[string(mode)+"/"+itemID] = true
	return nil
}

func (s *fakeStore) IsSeen(ctx context.Context, mode entity.Mode, itemID string) (bool, error) {
	return s.seen[string(mode)+"/"+itemID], nil
}

// fakeSource 脚本化的条目源,按页提供条目ID
type fakeSource struct {
	pages       map[int][]string
	currentPage int
	navigations []int
	notListing  bool
	fullCalls   []string
	failFull    map[string]bool
	discoveries int
}

func newFakeSource(pages map[int][]string) *fakeSource {
	return &fakeSource{pages: pages, failFull: make(map[string]bool)}
}

func (s *fakeSource) Navigate(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	page, _ := strconv.Atoi(u.Query().Get("page"))
	if page == 0 {
		page = 1
	}
	s.currentPage = page
	s.navigations = append(s.navigations, page)
	return nil
}

func (s *fakeSource) OnListingPage(ctx context.Context) (bool, error) {
	return !s.notListing, nil
}

func (s *fakeSource) DiscoverItemIDs(ctx context.Context) ([]string, error) {
	s.discoveries++
	return s.pages[s.currentPage], nil
}

func (s *fakeSource) CardSummary(ctx context.Context, id string) (*entity.Card, error) {
	return &entity.Card{
		Mode:    entity.ModeProfiles,
		Profile: &entity.ProfileCard{ProfileID: id, Name: "张" + id},
	}, nil
}

func (s *fakeSource) FullRecord(ctx context.Context, id string) (*entity.Record, string, error) {
	s.fullCalls = append(s.fullCalls, id)
	if s.failFull[id] {
		return nil, "", fmt.Errorf("提取失败")
	}
	return &entity.Record{
		Mode:    entity.ModeProfiles,
		Profile: &entity.ProfileRecord{ProfileID: id, Name: "张" + id},
	}, "https://example.com/detail/" + id, nil
}

func (s *fakeSource) HasNextPage(ctx context.Context) (bool, error) {
	_, ok := s.pages[s.currentPage+1]
	return ok, nil
}

func (s *fakeSource) Engage(ctx context.Context, level string) error {
	return nil
}

// fakeEval 脚本化的评估器,未脚本化的条目一律放行
type fakeEval struct {
	triageReject map[string]bool
	triageMaybe  map[string]bool
	fullReject   map[string]bool
	binaryReject map[string]bool
	triageCalls  []string
	fullCalls    []string
	binaryCalls  []string
	resets       int
}

func newFakeEval() *fakeEval {
	return &fakeEval{
		triageReject: make(map[string]bool),
		triageMaybe:  make(map[string]bool),
		fullReject:   make(map[string]bool),
		binaryReject: make(map[string]bool),
	}
}

func (e *fakeEval) Reset() { e.resets++ }

func (e *fakeEval) Triage(ctx context.Context, card *entity.Card) evaluate.Outcome {
	e.triageCalls = append(e.triageCalls, card.ID())
	if e.triageReject[card.ID()] {
		return evaluate.Outcome{Decision: evaluate.DecisionReject, Reason: "不符合标准"}
	}
	if e.triageMaybe[card.ID()] {
		return evaluate.Outcome{Decision: evaluate.DecisionMaybe, Reason: "信息不足"}
	}
	return evaluate.Outcome{Decision: evaluate.DecisionKeep}
}

func (e *fakeEval) FullReview(ctx context.Context, rec *entity.Record) evaluate.Outcome {
	e.fullCalls = append(e.fullCalls, rec.ID())
	if e.fullReject[rec.ID()] {
		return evaluate.Outcome{Decision: evaluate.DecisionReject, Reason: "复评不通过"}
	}
	return evaluate.Outcome{Decision: evaluate.DecisionAccept}
}

func (e *fakeEval) Binary(ctx context.Context, card *entity.Card) evaluate.Outcome {
	e.binaryCalls = append(e.binaryCalls, card.ID())
	if e.binaryReject[card.ID()] {
		return evaluate.Outcome{Decision: evaluate.DecisionReject, Reason: "不下载"}
	}
	return evaluate.Outcome{Decision: evaluate.DecisionAccept}
}

type fakeSink struct {
	exports [][]*entity.Record
	formats [][]string
	fail    bool
}

func (s *fakeSink) Export(ctx context.Context, recs []*entity.Record, formats []string) error {
	if s.fail {
		return fmt.Errorf("导出失败")
	}
	s.exports = append(s.exports, recs)
	s.formats = append(s.formats, formats)
	return nil
}

func startParam(pages int, strategy string) *param.Start {
	return &param.Start{
		Mode:        "profiles",
		URL:         "https://example.com/search?q=golang&page=1",
		TargetPages: pages,
		Formats:     []string{"csv"},
		Strategy:    strategy,
	}
}

func TestDeriveNextStep(t *testing.T) {
	assert.Equal(t, StepIdle, DeriveNextStep(nil))
	assert.Equal(t, StepFinalize, DeriveNextStep(&checkpoint.Checkpoint{Active: false}))
	assert.Equal(t, StepLoadPage, DeriveNextStep(&checkpoint.Checkpoint{Active: true}))
	assert.Equal(t, StepIterate, DeriveNextStep(&checkpoint.Checkpoint{
		Active: true, ItemIDs: []string{"a", "b"}, ItemIndex: 1,
	}))
	assert.Equal(t, StepPaginate, DeriveNextStep(&checkpoint.Checkpoint{
		Active: true, ItemIDs: []string{"a", "b"}, ItemIndex: 2,
	}))
	// 空页也算已快照,直接进入翻页决策
	assert.Equal(t, StepPaginate, DeriveNextStep(&checkpoint.Checkpoint{
		Active: true, ItemIDs: []string{},
	}))
}

func TestStartCreatesCheckpoint(t *testing.T) {
	store := newFakeStore()
	p := InitPipeline(newFakeSource(nil), newFakeEval(), store, &fakeSink{})

	sp := startParam(3, "tiered")
	sp.URL = "https://example.com/search?q=golang&page=4"
	require.NoError(t, p.Start(context.Background(), sp))

	cp, err := store.LoadCheckpoint(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.True(t, cp.Active)
	assert.NotEmpty(t, cp.SessionID)
	assert.Equal(t, 4, cp.StartPage)
	assert.Equal(t, 4, cp.CurrentPage)
	assert.Equal(t, "https://example.com/search?q=golang", cp.BaseURL)
	assert.Equal(t, "tiered", cp.Strategy)
}

func TestStartRejectsSecondSession(t *testing.T) {
	store := newFakeStore()
	p := InitPipeline(newFakeSource(nil), newFakeEval(), store, &fakeSink{})
	require.NoError(t, p.Start(context.Background(), startParam(1, "")))
	assert.Error(t, p.Start(context.Background(), startParam(1, "")))
}

func TestPaginationStopsAtTargetPages(t *testing.T) {
	pages := map[int][]string{
		1: {"a1", "a2"},
		2: {"b1"},
		3: {"c1", "c2"},
		4: {"d1"},
		5: {"e1"},
	}
	source := newFakeSource(pages)
	store := newFakeStore()
	sink := &fakeSink{}
	p := InitPipeline(source, newFakeEval(), store, sink)

	ctx := context.Background()
	require.NoError(t, p.Start(ctx, startParam(3, "")))
	require.NoError(t, p.Run(ctx))

	// 即使还有第4页,目标页数为3就到此为止
	assert.Equal(t, []int{1, 2, 3}, source.navigations)
	require.Len(t, sink.exports, 1)
	assert.Len(t, sink.exports[0], 5)
	assert.True(t, store.cleared)
}

func TestPaginationRunsUntilLastPage(t *testing.T) {
	pages := map[int][]string{1: {"a1"}, 2: {"b1"}}
	source := newFakeSource(pages)
	store := newFakeStore()
	sink := &fakeSink{}
	p := InitPipeline(source, newFakeEval(), store, sink)

	ctx := context.Background()
	require.NoError(t, p.Start(ctx, startParam(0, "")))
	require.NoError(t, p.Run(ctx))

	assert.Equal(t, []int{1, 2}, source.navigations)
	require.Len(t, sink.exports, 1)
	assert.Len(t, sink.exports[0], 2)
}

func TestTriageRejectShortCircuitsFullFetch(t *testing.T) {
	source := newFakeSource(map[int][]string{1: {"a1", "a2", "a3"}})
	eval := newFakeEval()
	eval.triageReject["a2"] = true
	store := newFakeStore()
	sink := &fakeSink{}
	p := InitPipeline(source, eval, store, sink)

	ctx := context.Background()
	require.NoError(t, p.Start(ctx, startParam(1, "tiered")))
	require.NoError(t, p.Run(ctx))

	// 被拒条目不碰详情
	assert.Equal(t, []string{"a1", "a3"}, source.fullCalls)
	assert.Equal(t, []string{"a1", "a2", "a3"}, eval.triageCalls)
	require.Len(t, sink.exports, 1)
	assert.Len(t, sink.exports[0], 2)
}

func TestMaybeTriggersFullReview(t *testing.T) {
	source := newFakeSource(map[int][]string{1: {"a1", "a2"}, 2: {}})
	eval := newFakeEval()
	eval.triageMaybe["a1"] = true
	eval.triageMaybe["a2"] = true
	eval.fullReject["a1"] = true
	store := newFakeStore()
	sink := &fakeSink{}
	p := InitPipeline(source, eval, store, sink)

	ctx := context.Background()
	require.NoError(t, p.Start(ctx, startParam(2, "tiered")))

	res, err := p.RunBoot(ctx)
	require.NoError(t, err)
	assert.Equal(t, BootContinue, res)

	// 复评也是评估调用: 2次初筛+2次复评都要计数
	cp, err := store.LoadCheckpoint(ctx)
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Equal(t, 4, cp.Evaluated)
	assert.Equal(t, 1, cp.Accepted)

	require.NoError(t, p.Run(ctx))

	// maybe条目抓取完整记录后复评,复评拒绝的不进缓冲区
	assert.Equal(t, []string{"a1", "a2"}, source.fullCalls)
	assert.Equal(t, []string{"a1", "a2"}, eval.fullCalls)
	require.Len(t, sink.exports, 1)
	require.Len(t, sink.exports[0], 1)
	assert.Equal(t, "a2", sink.exports[0][0].ID())
}

func TestTriageKeepSkipsFullReview(t *testing.T) {
	source := newFakeSource(map[int][]string{1: {"a1"}})
	eval := newFakeEval()
	store := newFakeStore()
	sink := &fakeSink{}
	p := InitPipeline(source, eval, store, sink)

	ctx := context.Background()
	require.NoError(t, p.Start(ctx, startParam(1, "tiered")))
	require.NoError(t, p.Run(ctx))

	// keep已经是明确结论,直接入缓冲区,不再花一次复评调用
	assert.Equal(t, []string{"a1"}, source.fullCalls)
	assert.Empty(t, eval.fullCalls)
	require.Len(t, sink.exports, 1)
	assert.Equal(t, "a1", sink.exports[0][0].ID())
}

func TestBinaryStrategySkipsFullReview(t *testing.T) {
	source := newFakeSource(map[int][]string{1: {"a1", "a2"}})
	eval := newFakeEval()
	eval.binaryReject["a1"] = true
	store := newFakeStore()
	sink := &fakeSink{}
	p := InitPipeline(source, eval, store, sink)

	ctx := context.Background()
	require.NoError(t, p.Start(ctx, startParam(1, "binary")))
	require.NoError(t, p.Run(ctx))

	assert.Equal(t, []string{"a1", "a2"}, eval.binaryCalls)
	// 二元策略没有复评环节
	assert.Empty(t, eval.fullCalls)
	assert.Empty(t, eval.triageCalls)
	assert.Equal(t, []string{"a2"}, source.fullCalls)
	require.Len(t, sink.exports, 1)
	assert.Equal(t, "a2", sink.exports[0][0].ID())
}

func TestNoStrategyKeepsEverything(t *testing.T) {
	source := newFakeSource(map[int][]string{1: {"a1", "a2"}})
	eval := newFakeEval()
	store := newFakeStore()
	sink := &fakeSink{}
	p := InitPipeline(source, eval, store, sink)

	ctx := context.Background()
	require.NoError(t, p.Start(ctx, startParam(1, "")))
	require.NoError(t, p.Run(ctx))

	assert.Empty(t, eval.triageCalls)
	assert.Empty(t, eval.binaryCalls)
	require.Len(t, sink.exports, 1)
	assert.Len(t, sink.exports[0], 2)
}

func TestResumeMidPageDoesNotReprocess(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()

	// 模拟崩溃现场: 第1页快照了3个条目,前2个已处理完,a1已入缓冲区
	cp := &checkpoint.Checkpoint{
		Active:      true,
		SessionID:   "s1",
		Mode:        entity.ModeProfiles,
		Strategy:    "tiered",
		StartPage:   1,
		CurrentPage: 1,
		TargetPages: 1,
		BaseURL:     "https://example.com/search",
		Formats:     []string{"csv"},
		ItemIDs:     []string{"a1", "a2", "a3"},
		ItemIndex:   2,
		Triage: map[string]checkpoint.TriageRecord{
			"a1": {Decision: checkpoint.TriageKeep},
			"a2": {Decision: checkpoint.TriageReject},
		},
		Evaluated: 2,
		Accepted:  1,
	}
	require.NoError(t, store.SaveCheckpoint(ctx, cp))
	require.NoError(t, store.AppendResult(ctx, "s1", &entity.Record{
		Mode:    entity.ModeProfiles,
		Profile: &entity.ProfileRecord{ProfileID: "a1", Name: "张a1"},
	}))

	source := newFakeSource(map[int][]string{1: {"a1", "a2", "a3"}})
	eval := newFakeEval()
	sink := &fakeSink{}
	p := InitPipeline(source, eval, store, sink)
	require.NoError(t, p.Run(ctx))

	// 快照不重做,已处理条目不重评,只剩a3被处理
	assert.Equal(t, 0, source.discoveries)
	assert.Equal(t, []string{"a3"}, eval.triageCalls)
	assert.Equal(t, []string{"a3"}, source.fullCalls)
	require.Len(t, sink.exports, 1)
	require.Len(t, sink.exports[0], 2)
	assert.Equal(t, "a1", sink.exports[0][0].ID())
	assert.Equal(t, "a3", sink.exports[0][1].ID())
}

func TestResumeMidItemSkipsTriageRedo(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()

	// 崩溃发生在初筛落盘之后、游标推进之前: 恢复时直接用已存结论
	cp := &checkpoint.Checkpoint{
		Active:      true,
		SessionID:   "s1",
		Mode:        entity.ModeProfiles,
		Strategy:    "tiered",
		StartPage:   1,
		CurrentPage: 1,
		TargetPages: 1,
		BaseURL:     "https://example.com/search",
		Formats:     []string{"csv"},
		ItemIDs:     []string{"a1"},
		ItemIndex:   0,
		Triage: map[string]checkpoint.TriageRecord{
			"a1": {Decision: checkpoint.TriageKeep},
		},
		Evaluated: 1,
	}
	require.NoError(t, store.SaveCheckpoint(ctx, cp))

	source := newFakeSource(map[int][]string{1: {"a1"}})
	eval := newFakeEval()
	sink := &fakeSink{}
	p := InitPipeline(source, eval, store, sink)
	require.NoError(t, p.Run(ctx))

	assert.Empty(t, eval.triageCalls)
	assert.Equal(t, []string{"a1"}, source.fullCalls)
}

func TestZeroMatchClearsWithoutExport(t *testing.T) {
	source := newFakeSource(map[int][]string{1: {"a1", "a2"}})
	eval := newFakeEval()
	eval.triageReject["a1"] = true
	eval.triageReject["a2"] = true
	store := newFakeStore()
	sink := &fakeSink{}
	p := InitPipeline(source, eval, store, sink)

	ctx := context.Background()
	require.NoError(t, p.Start(ctx, startParam(1, "tiered")))
	require.NoError(t, p.Run(ctx))

	// 零匹配: 不导出空文件,会话照常清除
	assert.Empty(t, sink.exports)
	assert.True(t, store.cleared)
}

func TestItemErrorSkipsOnlyThatItem(t *testing.T) {
	source := newFakeSource(map[int][]string{1: {"a1", "a2", "a3"}})
	source.failFull["a2"] = true
	store := newFakeStore()
	sink := &fakeSink{}
	p := InitPipeline(source, newFakeEval(), store, sink)

	ctx := context.Background()
	require.NoError(t, p.Start(ctx, startParam(1, "")))
	require.NoError(t, p.Run(ctx))

	require.Len(t, sink.exports, 1)
	require.Len(t, sink.exports[0], 2)
	assert.Equal(t, "a1", sink.exports[0][0].ID())
	assert.Equal(t, "a3", sink.exports[0][1].ID())
}

func TestStopRequestFinishesGracefully(t *testing.T) {
	source := newFakeSource(map[int][]string{1: {"a1", "a2", "a3"}})
	store := newFakeStore()
	sink := &fakeSink{}
	p := InitPipeline(source, newFakeEval(), store, sink)

	ctx := context.Background()
	require.NoError(t, p.Start(ctx, startParam(0, "")))
	p.RequestStop()
	require.NoError(t, p.Run(ctx))

	// 停止请求在第一个条目边界生效: 没有条目被处理,没有结果可导出
	assert.Empty(t, source.fullCalls)
	assert.Empty(t, sink.exports)
	assert.True(t, store.cleared)
}

func TestStoppedSessionExportsBufferedResults(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()

	// 等价于stop命令: 置收尾标记,缓冲区里已有结果
	cp := &checkpoint.Checkpoint{
		Active:    false,
		SessionID: "s1",
		Mode:      entity.ModeProfiles,
		Formats:   []string{"csv", "xlsx"},
		Accepted:  1,
	}
	require.NoError(t, store.SaveCheckpoint(ctx, cp))
	require.NoError(t, store.AppendResult(ctx, "s1", &entity.Record{
		Mode:    entity.ModeProfiles,
		Profile: &entity.ProfileRecord{ProfileID: "a1", Name: "张a1"},
	}))

	sink := &fakeSink{}
	p := InitPipeline(nil, newFakeEval(), store, sink)
	require.NoError(t, p.Run(ctx))

	require.Len(t, sink.exports, 1)
	assert.Equal(t, []string{"csv", "xlsx"}, sink.formats[0])
	assert.True(t, store.cleared)
}

func TestWrongPageFlushesPartialResults(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()

	cp := &checkpoint.Checkpoint{
		Active:      true,
		SessionID:   "s1",
		Mode:        entity.ModeProfiles,
		StartPage:   1,
		CurrentPage: 2,
		BaseURL:     "https://example.com/search",
		Formats:     []string{"csv"},
		ItemIDs:     []string{"b1"},
		Accepted:    1,
	}
	require.NoError(t, store.SaveCheckpoint(ctx, cp))
	require.NoError(t, store.AppendResult(ctx, "s1", &entity.Record{
		Mode:    entity.ModeProfiles,
		Profile: &entity.ProfileRecord{ProfileID: "a1", Name: "张a1"},
	}))

	source := newFakeSource(map[int][]string{2: {"b1"}})
	source.notListing = true
	sink := &fakeSink{}
	p := InitPipeline(source, newFakeEval(), store, sink)
	require.NoError(t, p.Run(ctx))

	// 恢复时发现不在列表页: 已有结果照常导出,会话收尾
	assert.Empty(t, source.fullCalls)
	require.Len(t, sink.exports, 1)
	assert.Equal(t, "a1", sink.exports[0][0].ID())
	assert.True(t, store.cleared)
}

func TestExportFailureKeepsSession(t *testing.T) {
	source := newFakeSource(map[int][]string{1: {"a1"}})
	store := newFakeStore()
	sink := &fakeSink{fail: true}
	p := InitPipeline(source, newFakeEval(), store, sink)

	ctx := context.Background()
	require.NoError(t, p.Start(ctx, startParam(1, "")))
	assert.Error(t, p.Run(ctx))

	// 导出失败不清会话,缓冲区保留,可再次resume收尾
	assert.False(t, store.cleared)
	recs, err := store.Results(ctx, "")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestSeenItemsFilteredInJobsMode(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	require.NoError(t, store.MarkSeen(ctx, entity.ModeJobs, "j1"))

	source := newFakeSource(map[int][]string{1: {"j1", "j2"}})
	sink := &fakeSink{}
	p := InitPipeline(source, newFakeEval(), store, sink)

	sp := startParam(1, "")
	sp.Mode = "jobs"
	require.NoError(t, p.Start(ctx, sp))
	require.NoError(t, p.Run(ctx))

	// 历史会话见过的j1被过滤,只处理j2
	assert.Equal(t, []string{"j2"}, source.fullCalls)
}

func TestEvaluatorResetPerBoot(t *testing.T) {
	source := newFakeSource(map[int][]string{1: {"a1"}, 2: {"b1"}})
	eval := newFakeEval()
	store := newFakeStore()
	p := InitPipeline(source, eval, store, &fakeSink{})

	ctx := context.Background()
	require.NoError(t, p.Start(ctx, startParam(2, "tiered")))
	require.NoError(t, p.Run(ctx))

	// 每次页面导航都是新的执行环境,对话日志逐页归零
	assert.Equal(t, 2, eval.resets)
}

func TestCountersAccumulateAcrossPages(t *testing.T) {
	source := newFakeSource(map[int][]string{1: {"a1", "a2"}, 2: {"b1"}})
	eval := newFakeEval()
	eval.triageReject["a2"] = true
	store := newFakeStore()
	sink := &fakeSink{}
	p := InitPipeline(source, eval, store, sink)

	ctx := context.Background()
	require.NoError(t, p.Start(ctx, startParam(2, "tiered")))

	// 第1页结束在翻页边界,此时统计应当已经落盘
	res, err := p.RunBoot(ctx)
	require.NoError(t, err)
	assert.Equal(t, BootContinue, res)

	cp, err := store.LoadCheckpoint(ctx)
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Equal(t, 2, cp.Evaluated)
	assert.Equal(t, 1, cp.Accepted)
	assert.Equal(t, 2, cp.CurrentPage)
	// 翻页时页内状态作废
	assert.False(t, cp.PageSnapshotted())
	assert.Empty(t, cp.Triage)

	require.NoError(t, p.Run(ctx))
	require.Len(t, sink.exports, 1)
	assert.Len(t, sink.exports[0], 2)
}
