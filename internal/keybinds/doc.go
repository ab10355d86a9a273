/*
Package keybinds provides customizable keyboard binding management.

# Overview

Bindings are context-aware: a key is first matched in the context of the
focused area (results list, search box, form, charts, detail dialog, help)
and then in the global context. A context binding shadows the global one.

# Configuration File Format

Overrides are read from a YAML file named by the keybinds_file setting. Each
section is a context; each entry maps an action to a comma-separated key list
that replaces the default keys of that action in that context:

	global:
	  refresh: ctrl+r,f5
	results:
	  open_detail: enter,o
	  edit_record: e
	modal:
	  copy_record: c,y

# Multi-Key Sequences

Two-character sequences such as "gg" are supported. The first key of a bound
sequence is held as pending until the next key arrives.

# Validation

The validator reports unknown actions and malformed keys as errors, and
reserved key rebinds and shadowed global keys as warnings.

# Example Usage

	registry, err := LoadOrDefault(cfg.KeybindsFile)
	if err != nil {
		return err
	}
	if action, ok := registry.Match(ContextResults, "enter"); ok {
		// Handle action
	}

The Registry is not synchronized. Configure it before handing it to the TUI.
*/
package keybinds
