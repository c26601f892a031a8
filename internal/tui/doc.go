// Package tui implements the interactive questionnaire with bubbletea.
//
// The Model mirrors the three session phases: a selection list of all
// indicators grouped by dimension and section, a question screen that shows
// one question at a time with a progress bar in the dimension color, and a
// review screen with the tallies and the PDF export action.
//
// All state transitions go through assessment.Session; the Model only keeps
// presentation state such as cursors and status lines.
package tui
