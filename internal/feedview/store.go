package feedview

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
)

// Session is the explicit auth context carried by the engine instead of
// module-level globals. Expiry is enforced server-side on the next request.
type Session struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

func (s Session) LoggedIn() bool {
	return s.Username != ""
}

// State is everything the engine persists between runs: the session and the
// reaction overlay keyed by post id.
type State struct {
	Session   Session             `json:"session"`
	Reactions map[string]Reaction `json:"reactions"`
}

// Store loads the engine state once at startup and saves it after every
// change. Implementations need no locking; the engine serializes access.
type Store interface {
	Load() (State, error)
	Save(State) error
}

// FileStore keeps the state in a single JSON file next to wherever the
// client runs.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (State, error) {
	state := State{Reactions: map[string]Reaction{}}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return state, nil
		}
		return state, err
	}

	if err := json.Unmarshal(data, &state); err != nil {
		// Corrupt state files are discarded, not surfaced
		return State{Reactions: map[string]Reaction{}}, nil
	}
	if state.Reactions == nil {
		state.Reactions = map[string]Reaction{}
	}
	return state, nil
}

func (s *FileStore) Save(state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
