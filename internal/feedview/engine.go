package feedview

import (
	"context"
	"html/template"
	"sort"
	"strings"
	"sync"
	"time"

	"jungleboard/internal/entity"
	"jungleboard/pkg/logger"
)

const (
	// PageSize is the fixed home-feed page size.
	PageSize = 5

	// searchDebounce is the quiet period before a typed term is committed.
	searchDebounce = 200 * time.Millisecond
)

type SortMode string

const (
	SortViews SortMode = "views"
	SortLikes SortMode = "likes"
)

// SearchStatus distinguishes "enter a term" from "no matches".
type SearchStatus int

const (
	SearchIdle SearchStatus = iota
	SearchNoMatches
	SearchMatched
)

// API is the slice of the board client the engine needs.
type API interface {
	ListPosts(ctx context.Context) ([]entity.Post, error)
	IncrementViews(ctx context.Context, postID string) (*entity.Post, error)
}

// DecoratedPost is a server post with the viewer's reaction overlay applied.
type DecoratedPost struct {
	entity.Post
	Viewer Choice `json:"viewer,omitempty"`
}

// RenderedBody is the post body as sanitized HTML for the detail view.
func (p DecoratedPost) RenderedBody() template.HTML {
	return RenderBody(p.Body)
}

// Engine derives every feed view (pagination, popularity, boards, search)
// from one post snapshot plus the persisted reaction overlay and session.
// All methods are safe for concurrent use; the debounce timer fires on its
// own goroutine.
type Engine struct {
	api   API
	store Store
	log   *logger.Logger

	mu        sync.Mutex
	session   Session
	reactions map[string]Reaction
	posts     []entity.Post
	page      int
	fetchGen  uint64

	searchInput string
	searchTerm  string
	searchTimer *time.Timer
}

func NewEngine(api API, store Store, log *logger.Logger) (*Engine, error) {
	state, err := store.Load()
	if err != nil {
		return nil, err
	}

	return &Engine{
		api:       api,
		store:     store,
		log:       log,
		session:   state.Session,
		reactions: state.Reactions,
		page:      1,
	}, nil
}

// Session returns the current auth context.
func (e *Engine) Session() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

func (e *Engine) SetSession(s Session) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session = s
	e.saveLocked()
}

func (e *Engine) ClearSession() {
	e.SetSession(Session{})
}

// Refresh fetches the post snapshot. Each call supersedes any fetch still in
// flight; a superseded result is discarded instead of clobbering newer state.
func (e *Engine) Refresh(ctx context.Context) error {
	e.mu.Lock()
	e.fetchGen++
	gen := e.fetchGen
	e.mu.Unlock()

	posts, err := e.api.ListPosts(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.fetchGen {
		return nil
	}
	e.applySnapshotLocked(posts)
	return nil
}

// OpenPost counts a view and folds the refreshed post back into the
// snapshot. Returns the decorated post for the detail view.
func (e *Engine) OpenPost(ctx context.Context, postID string) (*DecoratedPost, error) {
	updated, err := e.api.IncrementViews(ctx, postID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	replaced := false
	for i := range e.posts {
		if e.posts[i].ID == updated.ID {
			e.posts[i] = *updated
			replaced = true
			break
		}
	}
	if !replaced {
		e.posts = append(e.posts, *updated)
	}

	if r, ok := e.reactions[updated.ID]; ok {
		e.reactions[updated.ID] = r.Lift(updated.Likes, updated.Dislikes)
	} else {
		e.reactions[updated.ID] = Reaction{Likes: updated.Likes, Dislikes: updated.Dislikes}
	}
	e.saveLocked()

	decorated := e.decorateLocked(*updated)
	return &decorated, nil
}

// React applies one like/dislike press to the overlay and persists it.
// Reactions are purely local; the server only ever learns counts it already
// reported, lifted by this viewer's toggles.
func (e *Engine) React(postID string, action Choice) {
	if action != ChoiceLike && action != ChoiceDislike {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	current, ok := e.reactions[postID]
	if !ok {
		for i := range e.posts {
			if e.posts[i].ID == postID {
				current = Reaction{Likes: e.posts[i].Likes, Dislikes: e.posts[i].Dislikes}
				break
			}
		}
	}

	e.reactions[postID] = current.Toggle(action)
	e.saveLocked()
}

// Posts returns the full decorated snapshot, server order (newest-first).
func (e *Engine) Posts() []DecoratedPost {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.decorateAllLocked()
}

func (e *Engine) TotalPages() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return totalPages(len(e.posts))
}

func (e *Engine) Page() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.page
}

// SetPage clamps into [1, TotalPages].
func (e *Engine) SetPage(page int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.page = clampPage(page, totalPages(len(e.posts)))
}

// VisiblePosts is the current home-feed page.
func (e *Engine) VisiblePosts() []DecoratedPost {
	e.mu.Lock()
	defer e.mu.Unlock()

	all := e.decorateAllLocked()
	start := (e.page - 1) * PageSize
	if start >= len(all) {
		return nil
	}
	end := start + PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

// Latest is the snapshot sorted strictly by recency.
func (e *Engine) Latest() []DecoratedPost {
	e.mu.Lock()
	defer e.mu.Unlock()

	posts := e.decorateAllLocked()
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}

// Popular ranks by the chosen metric descending, breaks ties on the other
// metric, then on recency.
func (e *Engine) Popular(mode SortMode) []DecoratedPost {
	e.mu.Lock()
	defer e.mu.Unlock()

	primaryLikes := mode == SortLikes
	posts := e.decorateAllLocked()
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		first, second := a.Views-b.Views, a.Likes-b.Likes
		if primaryLikes {
			first, second = second, first
		}
		if first != 0 {
			return first > 0
		}
		if second != 0 {
			return second > 0
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return posts
}

// Board filters by exact normalized category. Posts without a recognized
// category belong to no board.
func (e *Engine) Board(category string) []DecoratedPost {
	target := entity.NormalizeCategory(category)
	if target == "" {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var posts []DecoratedPost
	for _, p := range e.decorateAllLocked() {
		if p.Category == target {
			posts = append(posts, p)
		}
	}
	return posts
}

// MyPosts filters the snapshot to the logged-in user's display name.
func (e *Engine) MyPosts() []DecoratedPost {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.session.LoggedIn() {
		return nil
	}

	var posts []DecoratedPost
	for _, p := range e.decorateAllLocked() {
		if p.Author.Username == e.session.Username {
			posts = append(posts, p)
		}
	}
	return posts
}

// SetSearchInput records typed input; the term commits after a 200ms quiet
// period.
func (e *Engine) SetSearchInput(input string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.searchInput = input
	if e.searchTimer != nil {
		e.searchTimer.Stop()
	}
	e.searchTimer = time.AfterFunc(searchDebounce, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.searchTerm = strings.TrimSpace(e.searchInput)
	})
}

// FlushSearch commits any pending input immediately.
func (e *Engine) FlushSearch() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.searchTimer != nil {
		e.searchTimer.Stop()
		e.searchTimer = nil
	}
	e.searchTerm = strings.TrimSpace(e.searchInput)
}

// SearchResults matches the committed term case-insensitively against
// titles. An empty term reports SearchIdle, not SearchNoMatches.
func (e *Engine) SearchResults() ([]DecoratedPost, SearchStatus) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.searchTerm == "" {
		return nil, SearchIdle
	}

	keyword := strings.ToLower(e.searchTerm)
	var posts []DecoratedPost
	for _, p := range e.decorateAllLocked() {
		if strings.Contains(strings.ToLower(p.Title), keyword) {
			posts = append(posts, p)
		}
	}
	if len(posts) == 0 {
		return nil, SearchNoMatches
	}
	return posts, SearchMatched
}

// applySnapshotLocked installs a fresh server snapshot: overlay entries are
// seeded or lifted, entries for vanished posts dropped, page re-clamped.
func (e *Engine) applySnapshotLocked(posts []entity.Post) {
	e.posts = posts

	alive := make(map[string]bool, len(posts))
	for i := range posts {
		p := &posts[i]
		alive[p.ID] = true
		if r, ok := e.reactions[p.ID]; ok {
			e.reactions[p.ID] = r.Lift(p.Likes, p.Dislikes)
		} else {
			e.reactions[p.ID] = Reaction{Likes: p.Likes, Dislikes: p.Dislikes}
		}
	}
	for id := range e.reactions {
		if !alive[id] {
			delete(e.reactions, id)
		}
	}

	e.page = clampPage(e.page, totalPages(len(e.posts)))
	e.saveLocked()
}

func (e *Engine) decorateAllLocked() []DecoratedPost {
	posts := make([]DecoratedPost, len(e.posts))
	for i := range e.posts {
		posts[i] = e.decorateLocked(e.posts[i])
	}
	return posts
}

func (e *Engine) decorateLocked(p entity.Post) DecoratedPost {
	decorated := DecoratedPost{Post: p}
	decorated.Views = floorZero(p.Views)
	if r, ok := e.reactions[p.ID]; ok {
		decorated.Likes = r.Likes
		decorated.Dislikes = r.Dislikes
		decorated.Viewer = r.Viewer
	}
	return decorated
}

func (e *Engine) saveLocked() {
	err := e.store.Save(State{Session: e.session, Reactions: e.reactions})
	if err != nil && e.log != nil {
		e.log.Warn("Failed to persist view state: %v", err)
	}
}

func totalPages(count int) int {
	pages := (count + PageSize - 1) / PageSize
	if pages < 1 {
		return 1
	}
	return pages
}

func clampPage(page, total int) int {
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}
