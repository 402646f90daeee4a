// Package tui is the interactive session controller.
//
// The Model is a small state machine over four modes:
//
//	ListView ──enter──▶ IssueDetail
//	ListView ──enter──▶ PullRequestDetail ──d──▶ PullRequestDiff
//	ListView ◀──esc──── IssueDetail
//	ListView ◀──esc──── PullRequestDetail ◀──esc── PullRequestDiff
//
// Keys resolve to an Action through the key map, and the (Mode, Action) pair
// is looked up in a fixed transition table; pairs missing from the table are
// ignored. Filter toggles go through an event bus to the list synchronizer,
// whose background fetches come back to Update as messages so that every
// change to the displayed list happens on the bubbletea loop.
package tui
