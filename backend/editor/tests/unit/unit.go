package unit

import (
	"Inkwell/backend/editor"
	"Inkwell/backend/editor/impl"
	"Inkwell/backend/editor/tests"
)

var editorFac = impl.NewEditor

func newTestEditor() (editor.Editor, *tests.FakeClock) {
	clock := tests.NewFakeClock()
	return editorFac(tests.TestConfiguration(clock)), clock
}
