package keybinds

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// namedKeys are multi-character key names reported by the terminal
var namedKeys = map[string]bool{
	"up": true, "down": true, "left": true, "right": true,
	"enter": true, "esc": true, "tab": true, "backspace": true,
	"delete": true, "insert": true, "home": true, "end": true,
	"pgup": true, "pgdown": true, "space": true,
	"f1": true, "f2": true, "f3": true, "f4": true, "f5": true, "f6": true,
	"f7": true, "f8": true, "f9": true, "f10": true, "f11": true, "f12": true,
}

var validModifiers = []string{"ctrl+", "alt+", "shift+"}

// ValidationError represents a keybinding validation error
type ValidationError struct {
	Type    string // "conflict", "invalid", "warning"
	Context Context
	Key     string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s in context '%s': %s", e.Type, e.Key, e.Context, e.Message)
}

// ValidationResult contains all validation errors and warnings
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any errors
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any warnings
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of validation results
func (r *ValidationResult) String() string {
	var sb strings.Builder

	if len(r.Errors) > 0 {
		sb.WriteString(fmt.Sprintf("Errors (%d):\n", len(r.Errors)))
		for _, err := range r.Errors {
			sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
		}
	}

	if len(r.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("Warnings (%d):\n", len(r.Warnings)))
		for _, warn := range r.Warnings {
			sb.WriteString(fmt.Sprintf("  - %s\n", warn.Error()))
		}
	}

	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}

	return sb.String()
}

// Validator validates keybinding configurations
type Validator struct {
	// reservedKeys are keys that should not be rebound, with the action they keep
	reservedKeys map[string]Action
}

// NewValidator creates a new keybinding validator
func NewValidator() *Validator {
	return &Validator{
		reservedKeys: map[string]Action{
			"ctrl+c": ActionQuitForce, // Force quit should always work
		},
	}
}

// ValidateRegistry validates an entire registry
func (v *Validator) ValidateRegistry(registry *Registry) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	for _, context := range sortedContexts(registry) {
		bindings := registry.bindings[context]
		for _, key := range sortedKeys(bindings) {
			action := bindings[key]
			v.checkBinding(context, key, action, result)
			v.checkReservedKey(context, key, action, result)
			v.checkShadowing(registry, context, key, action, result)
		}
		v.checkSequences(context, bindings, result)
	}

	return result
}

func (v *Validator) checkBinding(context Context, key string, action Action, result *ValidationResult) {
	if !IsKnownContext(context) {
		result.Errors = append(result.Errors, ValidationError{
			Type: "invalid", Context: context, Key: key,
			Message: "unknown context",
		})
	}
	if err := ValidateKey(key); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Type: "invalid", Context: context, Key: key,
			Message: err.Error(),
		})
	}
	if err := ValidateAction(string(action)); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Type: "invalid", Context: context, Key: key,
			Message: err.Error(),
		})
	}
}

// checkReservedKey warns when a reserved key is bound to another action
func (v *Validator) checkReservedKey(context Context, key string, action Action, result *ValidationResult) {
	if want, reserved := v.reservedKeys[key]; reserved && action != want {
		result.Warnings = append(result.Warnings, ValidationError{
			Type:    "warning",
			Context: context,
			Key:     key,
			Message: "reserved key rebound (may cause issues)",
		})
	}
}

// checkShadowing warns when a context binding hides a different global binding
func (v *Validator) checkShadowing(registry *Registry, context Context, key string, action Action, result *ValidationResult) {
	if context == ContextGlobal {
		return
	}
	globalAction, ok := registry.bindings[ContextGlobal][key]
	if !ok || globalAction == action {
		return
	}
	result.Warnings = append(result.Warnings, ValidationError{
		Type:    "warning",
		Context: context,
		Key:     key,
		Message: fmt.Sprintf("shadows global binding (%s -> %s)", globalAction, action),
	})
}

// checkSequences reports single keys made unreachable by a sequence starting with them
func (v *Validator) checkSequences(context Context, bindings map[string]Action, result *ValidationResult) {
	for _, key := range sortedKeys(bindings) {
		if !IsSequence(key) {
			continue
		}
		first, _ := utf8.DecodeRuneInString(key)
		single := string(first)
		if action, ok := bindings[single]; ok && action != ActionGoToTopPrepare {
			result.Errors = append(result.Errors, ValidationError{
				Type:    "conflict",
				Context: context,
				Key:     single,
				Message: fmt.Sprintf("unreachable: starts sequence %q", key),
			})
		}
	}
}

// ValidateKey checks if a key string is valid
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	rest := key
	for {
		stripped := false
		for _, mod := range validModifiers {
			if strings.HasPrefix(rest, mod) {
				rest = strings.TrimPrefix(rest, mod)
				stripped = true
			}
		}
		if !stripped {
			break
		}
	}
	if rest == "" {
		return fmt.Errorf("modifier without key: %s", key)
	}
	if rest != key {
		if utf8.RuneCountInString(rest) != 1 && !namedKeys[rest] {
			return fmt.Errorf("unknown key after modifier: %s", key)
		}
		return nil
	}

	if utf8.RuneCountInString(key) <= 2 || namedKeys[key] {
		return nil
	}
	return fmt.Errorf("unknown key: %s", key)
}

// ValidateAction checks if an action string is valid
func ValidateAction(actionStr string) error {
	if actionStr == "" {
		return fmt.Errorf("action cannot be empty")
	}
	if !IsKnownAction(Action(actionStr)) {
		return fmt.Errorf("unknown action: %s", actionStr)
	}
	return nil
}

func sortedContexts(registry *Registry) []Context {
	contexts := make([]Context, 0, len(registry.bindings))
	for c := range registry.bindings {
		contexts = append(contexts, c)
	}
	sort.Slice(contexts, func(i, j int) bool { return contexts[i] < contexts[j] })
	return contexts
}

func sortedKeys(bindings map[string]Action) []string {
	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
