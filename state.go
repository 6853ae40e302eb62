package stage

// EditorState is the editor's session state shared with surrounding panels:
// the selection, the active scene and the view mode.
type EditorState struct {
	selection   Selection
	activeScene string
	view        ViewMode
}

// NewEditorState creates a state with sceneID active and nothing selected.
func NewEditorState(sceneID string) *EditorState {
	return &EditorState{activeScene: sceneID}
}

// Selection returns the current selection.
func (s *EditorState) Selection() Selection { return s.selection }

// SetSelection replaces the selection. Callers outside the editor should
// prefer Editor.Select, which validates and notifies.
func (s *EditorState) SetSelection(sel Selection) { s.selection = sel }

// ActiveScene returns the id of the scene being edited or played.
func (s *EditorState) ActiveScene() string { return s.activeScene }

// SetActiveScene switches the active scene and clears the selection.
func (s *EditorState) SetActiveScene(id string) {
	if id == s.activeScene {
		return
	}
	s.activeScene = id
	s.selection = Selection{}
}

// ViewMode returns the current view mode.
func (s *EditorState) ViewMode() ViewMode { return s.view }

// SetViewMode sets the view mode.
func (s *EditorState) SetViewMode(v ViewMode) { s.view = v }
