package feedview

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"jungleboard/internal/entity"
)

type stubAPI struct {
	posts   []entity.Post
	listErr error
	viewed  *entity.Post
	viewErr error
}

func (s *stubAPI) ListPosts(_ context.Context) ([]entity.Post, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]entity.Post, len(s.posts))
	copy(out, s.posts)
	return out, nil
}

func (s *stubAPI) IncrementViews(_ context.Context, postID string) (*entity.Post, error) {
	if s.viewErr != nil {
		return nil, s.viewErr
	}
	p := *s.viewed
	p.ID = postID
	return &p, nil
}

type memStore struct {
	state State
	saves int
}

func (m *memStore) Load() (State, error) {
	if m.state.Reactions == nil {
		m.state.Reactions = map[string]Reaction{}
	}
	return m.state, nil
}

func (m *memStore) Save(state State) error {
	m.state = state
	m.saves++
	return nil
}

func testPost(id, title string, created time.Time) entity.Post {
	return entity.Post{
		ID:        id,
		Title:     title,
		Author:    entity.Author{ID: "author-" + id, Username: "author-" + id},
		CreatedAt: created,
	}
}

func newTestEngine(t *testing.T, api *stubAPI) (*Engine, *memStore) {
	t.Helper()
	store := &memStore{}
	engine, err := NewEngine(api, store, nil)
	assert.NoError(t, err)
	return engine, store
}

func TestRefresh_LoadsSnapshot(t *testing.T) {
	now := time.Now()
	api := &stubAPI{posts: []entity.Post{
		testPost("p1", "First", now),
		testPost("p2", "Second", now.Add(-time.Hour)),
	}}
	engine, _ := newTestEngine(t, api)

	err := engine.Refresh(context.Background())
	assert.NoError(t, err)

	posts := engine.Posts()
	assert.Len(t, posts, 2)
	assert.Equal(t, "p1", posts[0].ID)
}

func TestRefresh_ErrorLeavesSnapshotIntact(t *testing.T) {
	now := time.Now()
	api := &stubAPI{posts: []entity.Post{testPost("p1", "First", now)}}
	engine, _ := newTestEngine(t, api)
	assert.NoError(t, engine.Refresh(context.Background()))

	api.listErr = fmt.Errorf("boom")
	assert.Error(t, engine.Refresh(context.Background()))
	assert.Len(t, engine.Posts(), 1)
}

func TestPagination_ClampOnShrink(t *testing.T) {
	now := time.Now()
	api := &stubAPI{}
	for i := 0; i < 12; i++ {
		api.posts = append(api.posts, testPost(fmt.Sprintf("p%d", i), "Post", now))
	}
	engine, _ := newTestEngine(t, api)
	assert.NoError(t, engine.Refresh(context.Background()))

	assert.Equal(t, 3, engine.TotalPages())

	engine.SetPage(3)
	assert.Equal(t, 3, engine.Page())
	assert.Len(t, engine.VisiblePosts(), 2)

	// Out-of-range requests clamp instead of erroring
	engine.SetPage(99)
	assert.Equal(t, 3, engine.Page())
	engine.SetPage(0)
	assert.Equal(t, 1, engine.Page())

	// 12 posts down to 4: page 3 no longer exists
	engine.SetPage(3)
	api.posts = api.posts[:4]
	assert.NoError(t, engine.Refresh(context.Background()))
	assert.Equal(t, 1, engine.Page())
	assert.Equal(t, 1, engine.TotalPages())
}

func TestPagination_EmptySnapshot(t *testing.T) {
	engine, _ := newTestEngine(t, &stubAPI{})
	assert.NoError(t, engine.Refresh(context.Background()))

	assert.Equal(t, 1, engine.TotalPages())
	assert.Equal(t, 1, engine.Page())
	assert.Empty(t, engine.VisiblePosts())
}

func TestPopular_SortsByChosenMetricWithTieBreaks(t *testing.T) {
	now := time.Now()
	a := testPost("a", "A", now.Add(-2*time.Hour))
	a.Views, a.Likes = 10, 1
	b := testPost("b", "B", now.Add(-time.Hour))
	b.Views, b.Likes = 10, 5
	c := testPost("c", "C", now)
	c.Views, c.Likes = 10, 5
	d := testPost("d", "D", now)
	d.Views, d.Likes = 50, 0

	api := &stubAPI{posts: []entity.Post{a, b, c, d}}
	engine, _ := newTestEngine(t, api)
	assert.NoError(t, engine.Refresh(context.Background()))

	byViews := engine.Popular(SortViews)
	assert.Equal(t, []string{"d", "c", "b", "a"}, postIDs(byViews))

	byLikes := engine.Popular(SortLikes)
	assert.Equal(t, []string{"c", "b", "a", "d"}, postIDs(byLikes))
}

func TestLatest_OrdersByRecency(t *testing.T) {
	now := time.Now()
	api := &stubAPI{posts: []entity.Post{
		testPost("old", "Old", now.Add(-time.Hour)),
		testPost("new", "New", now),
	}}
	engine, _ := newTestEngine(t, api)
	assert.NoError(t, engine.Refresh(context.Background()))

	assert.Equal(t, []string{"new", "old"}, postIDs(engine.Latest()))
}

func TestBoard_FiltersByNormalizedCategory(t *testing.T) {
	now := time.Now()
	game := testPost("g", "Game post", now)
	game.Category = entity.CategoryGame
	study := testPost("s", "Study post", now)
	study.Category = entity.CategoryStudy
	untagged := testPost("u", "Untagged", now)

	api := &stubAPI{posts: []entity.Post{game, study, untagged}}
	engine, _ := newTestEngine(t, api)
	assert.NoError(t, engine.Refresh(context.Background()))

	assert.Equal(t, []string{"g"}, postIDs(engine.Board("  GAME ")))
	assert.Equal(t, []string{"s"}, postIDs(engine.Board("study")))
	assert.Empty(t, engine.Board("memes"))
	assert.Empty(t, engine.Board(""))
}

func TestMyPosts_RequiresSession(t *testing.T) {
	now := time.Now()
	mine := testPost("m", "Mine", now)
	mine.Author = entity.Author{ID: "u1", Username: "kodu"}
	other := testPost("o", "Other", now)

	api := &stubAPI{posts: []entity.Post{mine, other}}
	engine, _ := newTestEngine(t, api)
	assert.NoError(t, engine.Refresh(context.Background()))

	assert.Empty(t, engine.MyPosts())

	engine.SetSession(Session{Token: "tok", UserID: "u1", Username: "kodu"})
	assert.Equal(t, []string{"m"}, postIDs(engine.MyPosts()))

	engine.ClearSession()
	assert.Empty(t, engine.MyPosts())
}

func TestSearch_EmptyTermIsIdleNotNoMatches(t *testing.T) {
	now := time.Now()
	api := &stubAPI{posts: []entity.Post{testPost("p1", "Gopher tips", now)}}
	engine, _ := newTestEngine(t, api)
	assert.NoError(t, engine.Refresh(context.Background()))

	results, status := engine.SearchResults()
	assert.Nil(t, results)
	assert.Equal(t, SearchIdle, status)

	engine.SetSearchInput("   ")
	engine.FlushSearch()
	_, status = engine.SearchResults()
	assert.Equal(t, SearchIdle, status)

	engine.SetSearchInput("zzz")
	engine.FlushSearch()
	results, status = engine.SearchResults()
	assert.Nil(t, results)
	assert.Equal(t, SearchNoMatches, status)
}

func TestSearch_CaseInsensitiveSubstring(t *testing.T) {
	now := time.Now()
	api := &stubAPI{posts: []entity.Post{
		testPost("p1", "Gopher Tips", now),
		testPost("p2", "gopher tricks", now),
		testPost("p3", "Rust corner", now),
	}}
	engine, _ := newTestEngine(t, api)
	assert.NoError(t, engine.Refresh(context.Background()))

	engine.SetSearchInput("GOPHER")
	engine.FlushSearch()

	results, status := engine.SearchResults()
	assert.Equal(t, SearchMatched, status)
	assert.Equal(t, []string{"p1", "p2"}, postIDs(results))
}

func TestSearch_DebounceCommitsOnlyLastInput(t *testing.T) {
	now := time.Now()
	api := &stubAPI{posts: []entity.Post{testPost("p1", "Gopher tips", now)}}
	engine, _ := newTestEngine(t, api)
	assert.NoError(t, engine.Refresh(context.Background()))

	engine.SetSearchInput("rust")
	engine.SetSearchInput("gopher")

	// Before the quiet period nothing is committed
	_, status := engine.SearchResults()
	assert.Equal(t, SearchIdle, status)

	assert.Eventually(t, func() bool {
		results, status := engine.SearchResults()
		return status == SearchMatched && len(results) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestReact_OverlayAndPersistence(t *testing.T) {
	now := time.Now()
	p := testPost("p1", "Post", now)
	p.Likes, p.Dislikes = 3, 1
	api := &stubAPI{posts: []entity.Post{p}}
	engine, store := newTestEngine(t, api)
	assert.NoError(t, engine.Refresh(context.Background()))

	engine.React("p1", ChoiceLike)

	posts := engine.Posts()
	assert.Equal(t, 4, posts[0].Likes)
	assert.Equal(t, ChoiceLike, posts[0].Viewer)
	assert.Equal(t, 4, store.state.Reactions["p1"].Likes)

	// Switching adjusts both counters in one step
	engine.React("p1", ChoiceDislike)
	posts = engine.Posts()
	assert.Equal(t, 3, posts[0].Likes)
	assert.Equal(t, 2, posts[0].Dislikes)
	assert.Equal(t, ChoiceDislike, posts[0].Viewer)
}

func TestRefresh_LiftsOverlayAndDropsVanishedPosts(t *testing.T) {
	now := time.Now()
	p1 := testPost("p1", "Kept", now)
	p2 := testPost("p2", "Removed", now)
	api := &stubAPI{posts: []entity.Post{p1, p2}}
	engine, store := newTestEngine(t, api)
	assert.NoError(t, engine.Refresh(context.Background()))

	engine.React("p1", ChoiceLike)
	engine.React("p2", ChoiceLike)

	// Server advances past the overlay on p1; p2 disappears entirely
	p1.Likes = 9
	api.posts = []entity.Post{p1}
	assert.NoError(t, engine.Refresh(context.Background()))

	posts := engine.Posts()
	assert.Len(t, posts, 1)
	assert.Equal(t, 9, posts[0].Likes)
	assert.Equal(t, ChoiceLike, posts[0].Viewer)
	assert.NotContains(t, store.state.Reactions, "p2")
}

func TestOpenPost_CountsViewAndUpdatesSnapshot(t *testing.T) {
	now := time.Now()
	p := testPost("p1", "Post", now)
	api := &stubAPI{posts: []entity.Post{p}}
	updated := p
	updated.Views = 8
	api.viewed = &updated

	engine, _ := newTestEngine(t, api)
	assert.NoError(t, engine.Refresh(context.Background()))

	opened, err := engine.OpenPost(context.Background(), "p1")
	assert.NoError(t, err)
	assert.Equal(t, 8, opened.Views)

	assert.Equal(t, 8, engine.Posts()[0].Views)
}

func TestOpenPost_Error(t *testing.T) {
	api := &stubAPI{viewErr: fmt.Errorf("gone")}
	engine, _ := newTestEngine(t, api)

	_, err := engine.OpenPost(context.Background(), "p1")
	assert.Error(t, err)
}

func TestNegativeViewsRenderAsZero(t *testing.T) {
	p := testPost("p1", "Post", time.Now())
	p.Views = -3
	api := &stubAPI{posts: []entity.Post{p}}
	engine, _ := newTestEngine(t, api)
	assert.NoError(t, engine.Refresh(context.Background()))

	assert.Equal(t, 0, engine.Posts()[0].Views)
}

func postIDs(posts []DecoratedPost) []string {
	var ids []string
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}
