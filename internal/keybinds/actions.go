package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	ContextGlobal  Context = "global"  // Available everywhere
	ContextResults Context = "results" // Result list focused
	ContextSearch  Context = "search"  // Search input focused
	ContextForm    Context = "form"    // Create/edit form focused
	ContextCharts  Context = "charts"  // Chart panel focused
	ContextModal   Context = "modal"   // Detail dialog open
	ContextHelp    Context = "help"    // Help overlay open
)

// Contexts lists every context in display order
var Contexts = []Context{
	ContextGlobal,
	ContextResults,
	ContextSearch,
	ContextForm,
	ContextCharts,
	ContextModal,
	ContextHelp,
}

const (
	// Global actions
	ActionQuit      Action = "quit"       // Quit application
	ActionQuitForce Action = "quit_force" // Force quit (ctrl+c)
	ActionFocusNext Action = "focus_next" // Move focus to the next area
	ActionFocusPrev Action = "focus_prev" // Move focus to the previous area
	ActionRefresh   Action = "refresh"    // Re-check connectivity and reload everything
	ActionShowAll   Action = "show_all"   // Clear the search and load every record
	ActionOpenHelp  Action = "open_help"  // Open help overlay

	// Navigation actions
	ActionNavigateUp     Action = "navigate_up"
	ActionNavigateDown   Action = "navigate_down"
	ActionPageUp         Action = "page_up"
	ActionPageDown       Action = "page_down"
	ActionGoToTop        Action = "go_to_top"
	ActionGoToTopPrepare Action = "go_to_top_prepare" // First 'g' in 'gg' sequence
	ActionGoToBottom     Action = "go_to_bottom"

	// Focus shortcuts
	ActionFocusSearch  Action = "focus_search"
	ActionFocusResults Action = "focus_results"
	ActionFocusForm    Action = "focus_form"
	ActionFocusCharts  Action = "focus_charts"

	// Record actions
	ActionOpenDetail  Action = "open_detail"  // Open detail dialog for the selected record
	ActionEditRecord  Action = "edit_record"  // Load the record into the form for editing
	ActionCopyRecord  Action = "copy_record"  // Copy the record as text to the clipboard
	ActionExportPDF   Action = "export_pdf"   // Export the loaded result set as PDF
	ActionExportExcel Action = "export_excel" // Download the whole sheet as Excel

	// Statistics actions
	ActionRefreshStats Action = "refresh_stats"
	ActionNextChart    Action = "next_chart"
	ActionPrevChart    Action = "prev_chart"
	ActionToggleChart  Action = "toggle_chart"

	// Form actions
	ActionNextField  Action = "next_field"
	ActionPrevField  Action = "prev_field"
	ActionSubmitForm Action = "submit_form"
	ActionCancelEdit Action = "cancel_edit"

	// Text input actions
	ActionTextSubmit Action = "text_submit"
	ActionTextCancel Action = "text_cancel"

	// Modal actions
	ActionCloseModal    Action = "close_modal"
	ActionModalNext     Action = "modal_next"     // Tab inside the dialog
	ActionModalPrev     Action = "modal_prev"     // Shift+Tab inside the dialog
	ActionModalActivate Action = "modal_activate" // Press the focused dialog button

	ActionNoOp Action = "noop" // No operation (ignore key)
)

// ActionInfo contains metadata about an action
type ActionInfo struct {
	Action      Action
	Description string
	Category    string
}

var actionInfos = map[Action]ActionInfo{
	ActionQuit:           {ActionQuit, "Salir", "General"},
	ActionQuitForce:      {ActionQuitForce, "Forzar salida", "General"},
	ActionFocusNext:      {ActionFocusNext, "Siguiente panel", "General"},
	ActionFocusPrev:      {ActionFocusPrev, "Panel anterior", "General"},
	ActionRefresh:        {ActionRefresh, "Verificar conexión y recargar", "General"},
	ActionShowAll:        {ActionShowAll, "Mostrar todos los registros", "General"},
	ActionOpenHelp:       {ActionOpenHelp, "Ayuda", "General"},
	ActionNavigateUp:     {ActionNavigateUp, "Subir", "Navegación"},
	ActionNavigateDown:   {ActionNavigateDown, "Bajar", "Navegación"},
	ActionPageUp:         {ActionPageUp, "Página anterior", "Navegación"},
	ActionPageDown:       {ActionPageDown, "Página siguiente", "Navegación"},
	ActionGoToTop:        {ActionGoToTop, "Ir al inicio", "Navegación"},
	ActionGoToTopPrepare: {ActionGoToTopPrepare, "Ir al inicio (gg)", "Navegación"},
	ActionGoToBottom:     {ActionGoToBottom, "Ir al final", "Navegación"},
	ActionFocusSearch:    {ActionFocusSearch, "Ir a la búsqueda", "Navegación"},
	ActionFocusResults:   {ActionFocusResults, "Ir a los resultados", "Navegación"},
	ActionFocusForm:      {ActionFocusForm, "Nuevo registro", "Navegación"},
	ActionFocusCharts:    {ActionFocusCharts, "Ir a los gráficos", "Navegación"},
	ActionOpenDetail:     {ActionOpenDetail, "Ver detalle", "Registros"},
	ActionEditRecord:     {ActionEditRecord, "Editar registro", "Registros"},
	ActionCopyRecord:     {ActionCopyRecord, "Copiar registro", "Registros"},
	ActionExportPDF:      {ActionExportPDF, "Exportar resultados a PDF", "Registros"},
	ActionExportExcel:    {ActionExportExcel, "Descargar Excel completo", "Registros"},
	ActionRefreshStats:   {ActionRefreshStats, "Actualizar estadísticas", "Estadísticas"},
	ActionNextChart:      {ActionNextChart, "Gráfico siguiente", "Estadísticas"},
	ActionPrevChart:      {ActionPrevChart, "Gráfico anterior", "Estadísticas"},
	ActionToggleChart:    {ActionToggleChart, "Expandir/contraer gráfico", "Estadísticas"},
	ActionNextField:      {ActionNextField, "Campo siguiente", "Formulario"},
	ActionPrevField:      {ActionPrevField, "Campo anterior", "Formulario"},
	ActionSubmitForm:     {ActionSubmitForm, "Guardar", "Formulario"},
	ActionCancelEdit:     {ActionCancelEdit, "Cancelar edición", "Formulario"},
	ActionTextSubmit:     {ActionTextSubmit, "Buscar ahora", "Búsqueda"},
	ActionTextCancel:     {ActionTextCancel, "Salir de la búsqueda", "Búsqueda"},
	ActionCloseModal:     {ActionCloseModal, "Cerrar", "Diálogo"},
	ActionModalNext:      {ActionModalNext, "Botón siguiente", "Diálogo"},
	ActionModalPrev:      {ActionModalPrev, "Botón anterior", "Diálogo"},
	ActionModalActivate:  {ActionModalActivate, "Pulsar botón", "Diálogo"},
	ActionNoOp:           {ActionNoOp, "Sin acción", "General"},
}

// GetActionInfo returns human-readable information about an action
func GetActionInfo(action Action) ActionInfo {
	if info, ok := actionInfos[action]; ok {
		return info
	}
	return ActionInfo{action, string(action), "Unknown"}
}

// IsKnownAction reports whether action is handled by the application
func IsKnownAction(action Action) bool {
	_, ok := actionInfos[action]
	return ok
}

// IsKnownContext reports whether context exists
func IsKnownContext(context Context) bool {
	for _, c := range Contexts {
		if c == context {
			return true
		}
	}
	return false
}

// IsGlobalAction returns true if the action is available in all contexts
func IsGlobalAction(action Action) bool {
	switch action {
	case ActionQuitForce, ActionFocusNext, ActionFocusPrev, ActionRefresh, ActionShowAll, ActionOpenHelp:
		return true
	}
	return false
}
