package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerResultsBindings(r)
	registerSearchBindings(r)
	registerFormBindings(r)
	registerChartsBindings(r)
	registerModalBindings(r)
	registerHelpBindings(r)

	return r
}

// registerGlobalBindings sets up bindings available in all modes.
// Text inputs receive printable keys, so global keys are all chorded or named.
func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
	r.Register(ContextGlobal, "tab", ActionFocusNext)
	r.Register(ContextGlobal, "shift+tab", ActionFocusPrev)
	r.RegisterMultiple(ContextGlobal, []string{"ctrl+r", "f5"}, ActionRefresh)
	r.Register(ContextGlobal, "ctrl+l", ActionShowAll)
	r.Register(ContextGlobal, "ctrl+t", ActionRefreshStats)
	r.Register(ContextGlobal, "ctrl+p", ActionExportPDF)
	r.Register(ContextGlobal, "ctrl+x", ActionExportExcel)
	r.Register(ContextGlobal, "ctrl+n", ActionFocusForm)
	r.Register(ContextGlobal, "f1", ActionOpenHelp)
}

func registerResultsBindings(r *Registry) {
	r.Register(ContextResults, "q", ActionQuit)
	r.Register(ContextResults, "?", ActionOpenHelp)
	r.RegisterMultiple(ContextResults, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextResults, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextResults, "pgup", ActionPageUp)
	r.Register(ContextResults, "pgdown", ActionPageDown)
	r.Register(ContextResults, "home", ActionGoToTop)
	r.Register(ContextResults, "gg", ActionGoToTop)
	r.RegisterMultiple(ContextResults, []string{"end", "G"}, ActionGoToBottom)
	r.Register(ContextResults, "/", ActionFocusSearch)
	r.Register(ContextResults, "n", ActionFocusForm)
	r.Register(ContextResults, "s", ActionFocusCharts)
	r.RegisterMultiple(ContextResults, []string{"enter", "o"}, ActionOpenDetail)
	r.Register(ContextResults, "e", ActionEditRecord)
	r.Register(ContextResults, "c", ActionCopyRecord)
	r.Register(ContextResults, "a", ActionShowAll)
	r.Register(ContextResults, "r", ActionRefreshStats)
}

// registerSearchBindings leaves printable keys to the text input
func registerSearchBindings(r *Registry) {
	r.Register(ContextSearch, "enter", ActionTextSubmit)
	r.Register(ContextSearch, "esc", ActionTextCancel)
	r.Register(ContextSearch, "down", ActionFocusResults)
}

func registerFormBindings(r *Registry) {
	r.RegisterMultiple(ContextForm, []string{"tab", "down", "enter"}, ActionNextField)
	r.RegisterMultiple(ContextForm, []string{"shift+tab", "up"}, ActionPrevField)
	r.Register(ContextForm, "ctrl+s", ActionSubmitForm)
	r.Register(ContextForm, "esc", ActionCancelEdit)
}

func registerChartsBindings(r *Registry) {
	r.Register(ContextCharts, "q", ActionQuit)
	r.RegisterMultiple(ContextCharts, []string{"right", "l"}, ActionNextChart)
	r.RegisterMultiple(ContextCharts, []string{"left", "h"}, ActionPrevChart)
	r.RegisterMultiple(ContextCharts, []string{"enter", " "}, ActionToggleChart)
	r.Register(ContextCharts, "r", ActionRefreshStats)
	r.Register(ContextCharts, "esc", ActionFocusResults)
}

// registerModalBindings routes keys of the detail dialog; the focus trap
// consumes tab, shift+tab and esc
func registerModalBindings(r *Registry) {
	r.RegisterMultiple(ContextModal, []string{"esc", "q"}, ActionCloseModal)
	r.Register(ContextModal, "tab", ActionModalNext)
	r.Register(ContextModal, "shift+tab", ActionModalPrev)
	r.RegisterMultiple(ContextModal, []string{"enter", " "}, ActionModalActivate)
	r.Register(ContextModal, "e", ActionEditRecord)
	r.Register(ContextModal, "c", ActionCopyRecord)
	r.RegisterMultiple(ContextModal, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextModal, []string{"down", "j"}, ActionNavigateDown)
}

func registerHelpBindings(r *Registry) {
	r.RegisterMultiple(ContextHelp, []string{"esc", "q", "?", "f1"}, ActionCloseModal)
}
