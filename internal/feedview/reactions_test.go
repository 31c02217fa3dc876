package feedview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggle_LikeRoundTrip(t *testing.T) {
	r := Reaction{Likes: 3, Dislikes: 1}

	r = r.Toggle(ChoiceLike)
	assert.Equal(t, 4, r.Likes)
	assert.Equal(t, 1, r.Dislikes)
	assert.Equal(t, ChoiceLike, r.Viewer)

	// Pressing like again undoes it
	r = r.Toggle(ChoiceLike)
	assert.Equal(t, 3, r.Likes)
	assert.Equal(t, 1, r.Dislikes)
	assert.Equal(t, ChoiceNone, r.Viewer)
}

func TestToggle_DislikeRoundTrip(t *testing.T) {
	r := Reaction{}

	r = r.Toggle(ChoiceDislike)
	assert.Equal(t, 1, r.Dislikes)
	assert.Equal(t, ChoiceDislike, r.Viewer)

	r = r.Toggle(ChoiceDislike)
	assert.Equal(t, 0, r.Dislikes)
	assert.Equal(t, ChoiceNone, r.Viewer)
}

func TestToggle_SwitchAdjustsBothCounters(t *testing.T) {
	r := Reaction{Likes: 2, Dislikes: 5, Viewer: ChoiceLike}

	r = r.Toggle(ChoiceDislike)

	assert.Equal(t, 1, r.Likes)
	assert.Equal(t, 6, r.Dislikes)
	assert.Equal(t, ChoiceDislike, r.Viewer)

	r = r.Toggle(ChoiceLike)

	assert.Equal(t, 2, r.Likes)
	assert.Equal(t, 5, r.Dislikes)
	assert.Equal(t, ChoiceLike, r.Viewer)
}

func TestToggle_NeverGoesNegative(t *testing.T) {
	r := Reaction{Likes: 0, Dislikes: 0, Viewer: ChoiceLike}

	r = r.Toggle(ChoiceLike)

	assert.Equal(t, 0, r.Likes)
	assert.Equal(t, 0, r.Dislikes)
	assert.Equal(t, ChoiceNone, r.Viewer)
}

func TestToggle_InvalidActionIsIgnored(t *testing.T) {
	r := Reaction{Likes: 1, Viewer: ChoiceLike}

	assert.Equal(t, r, r.Toggle(Choice("boost")))
	assert.Equal(t, r, r.Toggle(ChoiceNone))
}

func TestToggle_UnknownViewerTreatedAsNone(t *testing.T) {
	r := Reaction{Likes: 1, Viewer: Choice("stale")}

	r = r.Toggle(ChoiceLike)

	assert.Equal(t, 2, r.Likes)
	assert.Equal(t, ChoiceLike, r.Viewer)
}

func TestLift_RaisesButNeverLowers(t *testing.T) {
	r := Reaction{Likes: 4, Dislikes: 0, Viewer: ChoiceLike}

	lifted := r.Lift(7, 2)
	assert.Equal(t, 7, lifted.Likes)
	assert.Equal(t, 2, lifted.Dislikes)
	assert.Equal(t, ChoiceLike, lifted.Viewer)

	// Server counts lagging behind the overlay leave it untouched
	lifted = lifted.Lift(1, 1)
	assert.Equal(t, 7, lifted.Likes)
	assert.Equal(t, 2, lifted.Dislikes)
}
