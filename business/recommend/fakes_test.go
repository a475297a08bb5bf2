//go:build !integration

package recommend

import (
	"context"
	"fmt"
	"sync"

	"refrescobot/business/categorizer"
	"refrescobot/business/policy"
	"refrescobot/business/scoring"
	"refrescobot/business/segmenter"
	"refrescobot/domain"
)

type fakeBeverages struct {
	mu    sync.Mutex
	items map[uint64]domain.Beverage
	order []uint64
	saved int
}

func newFakeBeverages(bs ...domain.Beverage) *fakeBeverages {
	f := &fakeBeverages{items: map[uint64]domain.Beverage{}}
	for _, b := range bs {
		f.items[b.ID] = b
		f.order = append(f.order, b.ID)
	}
	return f
}

func (f *fakeBeverages) FindAll(ctx context.Context) ([]domain.Beverage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Beverage, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.items[id])
	}
	return out, nil
}

func (f *fakeBeverages) FindByID(ctx context.Context, id uint64) (domain.Beverage, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.items[id]
	return b, ok, nil
}

func (f *fakeBeverages) SaveProcessed(ctx context.Context, b domain.Beverage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[b.ID] = b
	f.saved++
	return nil
}

type fakeSessions struct {
	mu    sync.Mutex
	items map[string]domain.QuizSession
}

func (f *fakeSessions) Create(ctx context.Context, s domain.QuizSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.items == nil {
		f.items = map[string]domain.QuizSession{}
	}
	f.items[s.SessionID] = s
	return nil
}

func (f *fakeSessions) FindByID(ctx context.Context, id string) (domain.QuizSession, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.items[id]
	return s, ok, nil
}

type fakeRatings struct {
	mu       sync.Mutex
	bevs     *fakeBeverages
	recorded []domain.BeverageRating
}

func running(st domain.RatingStats, score int) domain.RatingStats {
	n := float64(st.Count)
	return domain.RatingStats{Average: (st.Average*n + float64(score)) / (n + 1), Count: st.Count + 1}
}

func (f *fakeRatings) Record(ctx context.Context, r domain.BeverageRating) (domain.RatingUpdate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bevs.mu.Lock()
	defer f.bevs.mu.Unlock()

	b := f.bevs.items[r.BeverageID]
	st := running(b.Stats(), r.Score)
	b.AverageRating, b.RatingCount = st.Average, st.Count
	out := domain.RatingUpdate{Beverage: st}
	if r.PresentationID != nil {
		for i := range b.Presentations {
			p := &b.Presentations[i]
			if p.ID != *r.PresentationID {
				continue
			}
			ps := running(domain.RatingStats{Average: p.AverageRating, Count: p.RatingCount}, r.Score)
			p.AverageRating, p.RatingCount = ps.Average, ps.Count
			out.Presentation = &ps
		}
	}
	f.bevs.items[r.BeverageID] = b
	f.recorded = append(f.recorded, r)
	return out, nil
}

func (f *fakeRatings) Stats(ctx context.Context) (map[uint64]domain.RatingStats, error) {
	f.bevs.mu.Lock()
	defer f.bevs.mu.Unlock()
	out := make(map[uint64]domain.RatingStats, len(f.bevs.items))
	for id, b := range f.bevs.items {
		out[id] = b.Stats()
	}
	return out, nil
}

type fakeSamples struct {
	mu        sync.Mutex
	items     []domain.TrainingSample
	appendErr error
}

func (f *fakeSamples) Append(ctx context.Context, s domain.TrainingSample) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.items = append(f.items, s)
	return nil
}

func (f *fakeSamples) ForTraining(ctx context.Context) ([]domain.TrainingSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.TrainingSample
	for _, s := range f.items {
		if !s.Synthetic {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSamples) Count(ctx context.Context) (int64, error) {
	usable, _ := f.ForTraining(ctx)
	return int64(len(usable)), nil
}

func (f *fakeSamples) Clear(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(len(f.items))
	f.items = nil
	return n, nil
}

type fakeCache struct {
	mu          sync.Mutex
	stats       map[uint64]domain.RatingStats
	invalidated int
}

func (f *fakeCache) Get(ctx context.Context) (map[uint64]domain.RatingStats, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats, f.stats != nil, nil
}

func (f *fakeCache) Set(ctx context.Context, stats map[uint64]domain.RatingStats) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats = stats
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats = nil
	f.invalidated++
	return nil
}

type fakeShown struct {
	mu    sync.Mutex
	sets  map[string]map[uint64]bool
	pages map[string]int
}

func newFakeShown() *fakeShown {
	return &fakeShown{sets: map[string]map[uint64]bool{}, pages: map[string]int{}}
}

func (f *fakeShown) Add(ctx context.Context, sessionID string, ids ...uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sets[sessionID] == nil {
		f.sets[sessionID] = map[uint64]bool{}
	}
	for _, id := range ids {
		f.sets[sessionID][id] = true
	}
	return nil
}

func (f *fakeShown) Members(ctx context.Context, sessionID string) (map[uint64]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[uint64]bool{}
	for id := range f.sets[sessionID] {
		out[id] = true
	}
	return out, nil
}

func (f *fakeShown) NextPage(ctx context.Context, sessionID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[sessionID]++
	return f.pages[sessionID], nil
}

type fakeOverrides struct {
	mu   sync.Mutex
	rows map[string]domain.EngineConfigOverride
}

func (f *fakeOverrides) List(ctx context.Context) ([]domain.EngineConfigOverride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.EngineConfigOverride
	for _, r := range f.rows {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeOverrides) Upsert(ctx context.Context, rows []domain.EngineConfigOverride) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows == nil {
		f.rows = map[string]domain.EngineConfigOverride{}
	}
	for _, r := range rows {
		f.rows[r.Key] = r
	}
	return nil
}

func soda(id uint64, name string, sweetness int) domain.Beverage {
	return domain.Beverage{
		ID:             id,
		Name:           name,
		Description:    "Refresco de cola con gas",
		Category:       "cola",
		IsRealSoda:     true,
		SweetnessLevel: sweetness,
		CalorieTier:    "alto",
		Presentations: []domain.Presentation{
			{ID: id * 10, VolumeML: 355, Price: 15},
			{ID: id*10 + 1, VolumeML: 600, Price: 21},
			{ID: id*10 + 2, VolumeML: 2000, Price: 38},
		},
	}
}

func alternative(id uint64, name string) domain.Beverage {
	return domain.Beverage{
		ID:             id,
		Name:           name,
		Description:    "Agua natural sin azúcar, hidratación",
		Category:       "agua",
		SweetnessLevel: 1,
		CalorieTier:    "cero",
		Presentations: []domain.Presentation{
			{ID: id * 10, VolumeML: 600, Price: 12},
			{ID: id*10 + 1, VolumeML: 1500, Price: 20},
		},
	}
}

func testCatalog() []domain.Beverage {
	return []domain.Beverage{
		soda(1, "Cola Original", 9),
		soda(2, "Cola Light", 4),
		soda(3, "Naranjada", 8),
		soda(4, "Toronja", 7),
		soda(5, "Manzana", 8),
		alternative(11, "Agua Natural"),
		alternative(12, "Agua Mineral"),
		alternative(13, "Agua de Coco"),
		alternative(14, "Agua Alcalina"),
		alternative(15, "Agua con Limón"),
	}
}

type harness struct {
	svc       *Service
	bevs      *fakeBeverages
	sessions  *fakeSessions
	ratings   *fakeRatings
	samples   *fakeSamples
	cache     *fakeCache
	shown     *fakeShown
	overrides *fakeOverrides
	seg       *segmenter.Segmenter
}

func newHarness(catalog ...domain.Beverage) *harness {
	if len(catalog) == 0 {
		catalog = testCatalog()
	}
	h := &harness{
		bevs:      newFakeBeverages(catalog...),
		sessions:  &fakeSessions{},
		samples:   &fakeSamples{},
		cache:     &fakeCache{},
		shown:     newFakeShown(),
		overrides: &fakeOverrides{},
	}
	h.ratings = &fakeRatings{bevs: h.bevs}

	segCfg := segmenter.DefaultConfig()
	segCfg.Clusters = 2
	h.seg = segmenter.New(segCfg)

	h.svc = NewService(
		h.bevs, h.sessions, h.ratings, h.samples, h.cache, h.shown, h.overrides,
		categorizer.New(categorizer.DefaultConfig()),
		h.seg,
		Config{Scoring: scoring.DefaultConfig(), Policy: policy.DefaultConfig(), SimilarLimit: 3},
	)
	n := 0
	h.svc.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return h
}
