package feedview

// Choice is the viewer's recorded reaction on a single post.
type Choice string

const (
	ChoiceNone    Choice = ""
	ChoiceLike    Choice = "like"
	ChoiceDislike Choice = "dislike"
)

// Reaction is the locally persisted counter state for one post. Counts start
// from the server values and then move with the viewer's toggles; they are
// floored at zero and only ever lifted (never lowered) by server counts.
type Reaction struct {
	Likes    int    `json:"likes"`
	Dislikes int    `json:"dislikes"`
	Viewer   Choice `json:"viewer,omitempty"`
}

// Toggle applies one like/dislike press and returns the next state. The
// like->dislike switch adjusts both counters in this single transition, so no
// intermediate state is ever observable.
func (r Reaction) Toggle(action Choice) Reaction {
	if action != ChoiceLike && action != ChoiceDislike {
		return r
	}

	next := r
	if next.Likes < 0 {
		next.Likes = 0
	}
	if next.Dislikes < 0 {
		next.Dislikes = 0
	}
	if next.Viewer != ChoiceLike && next.Viewer != ChoiceDislike {
		next.Viewer = ChoiceNone
	}

	switch action {
	case ChoiceLike:
		if next.Viewer == ChoiceLike {
			next.Likes = floorZero(next.Likes - 1)
			next.Viewer = ChoiceNone
		} else {
			if next.Viewer == ChoiceDislike {
				next.Dislikes = floorZero(next.Dislikes - 1)
			}
			next.Likes++
			next.Viewer = ChoiceLike
		}
	case ChoiceDislike:
		if next.Viewer == ChoiceDislike {
			next.Dislikes = floorZero(next.Dislikes - 1)
			next.Viewer = ChoiceNone
		} else {
			if next.Viewer == ChoiceLike {
				next.Likes = floorZero(next.Likes - 1)
			}
			next.Dislikes++
			next.Viewer = ChoiceDislike
		}
	}

	return next
}

// Lift reconciles with server-reported counts. Counts only move upward to
// meet the server; a local decrement from a toggle-off is never overwritten
// by a lower server value, so a stale high count can survive another user's
// un-like.
func (r Reaction) Lift(serverLikes, serverDislikes int) Reaction {
	next := r
	if serverLikes > next.Likes {
		next.Likes = serverLikes
	}
	if serverDislikes > next.Dislikes {
		next.Dislikes = serverDislikes
	}
	return next
}

func floorZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
