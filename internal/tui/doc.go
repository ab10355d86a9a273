/*
Package tui implements the terminal dashboard for the degree projects service.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern:
  - Model: Maintains all application state
  - Update: Processes messages and returns commands
  - View: Renders the current state to the terminal

# Key Components

  - model.go: Core state, messages and the Update loop
  - init.go: Construction and program startup
  - keys.go: Keyboard input handling and keybind routing
  - actions.go: Backend calls and their result messages
  - form.go: The create/edit form inputs
  - modal.go: The record detail dialog and its focus trap
  - render.go: View rendering for the main screen
  - help.go: The key binding overlay

# Areas

The screen is split into four focusable areas: the search input, the result
list, the form and the chart panel. Tab and Shift+Tab move between them; the
detail dialog and the help overlay take over the keyboard while open.

# Threading Model

Update is the only writer of Model state. Backend calls acquire their
cancellation token synchronously inside Update and run in tea.Cmd goroutines.
Their results come back as messages and are applied only when the token is
still current, so a superseded search never overwrites a newer one.
*/
package tui
