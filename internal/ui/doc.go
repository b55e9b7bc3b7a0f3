// Package ui implements the murmur terminal interface with Bubble Tea.
//
// The interface is a single model with three panes: a channel sidebar
// grouped by sections, the message viewport with a composer underneath,
// and a member roster. All displayed data comes from store selectors; the
// model never caches derived state beyond the current frame.
//
// The render loop is driven by the store. A waitForChange command blocks
// on the store's change notification channel and delivers a
// storeChangedMsg, at which point the model re-reads its selectors and
// re-arms the wait. Writes go the other way: a send or reaction keypress
// dispatches the optimistic intent synchronously, then a command performs
// the HTTP call and dispatches the confirmation or rollback.
package ui
