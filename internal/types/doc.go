/*
Package types defines core data structures shared by the proyectos client.

# Overview

The types package provides shared type definitions for:
  - Project records as returned by the sheet-backed service
  - Dashboard statistics snapshots
  - Connectivity status
  - Create/update form payloads

# Records

Record:
  - One row of the projects sheet
  - Decoded from the service's sheet-header keys ("Proyecto/Articulo", "Estudiante 1", ...)
  - Header names are trimmed and matched case-insensitively because the sheet
    carries stray whitespace ("Trabajo final ")
  - Numeric cells ("Año": 2024) are stringified during decoding
  - RowIndex is nil for records that were never saved

Records re-encode to the same sheet keys, which is what the PDF export endpoint expects.

# Statistics

Statistics:
  - Totals and approved counters
  - Per-program, per-advisor, per-date and per-year distributions
  - Per-stage status breakdowns (approved, in review, not approved, unspecified)

Maps are unordered; renderers sort them before display.

# Forms

FormValues mirrors the payload keys accepted by the create and update endpoints
(proyecto_articulo, estudiante1, fecha_sustentacion, ...). Update payloads additionally
carry numero_fila.
*/
package types
