// Package ui provides the terminal user interface for mpconsole.
//
// # Architecture Overview
//
// The UI is a single Bubble Tea model. It keeps a drawer of pages, a top bar
// with a search input, a content area and a footer that doubles as the
// snackbar line. Each page is a supplier that produces jsontable.TableData;
// the model renders it with jsontable.Render and lays the result out with the
// bubbles table component.
//
// # Package Structure
//
//   - app.go: Model, Options, message routing and Run
//   - drawer.go: drawer items, page selection and preference saving
//   - pages.go: page suppliers and the render pass for the current page
//   - tableview.go: RenderedTable to table component, empty and error panels
//   - search.go: top bar and item filtering
//   - form.go: creation form for new watches
//   - actions.go: settings page backend calls
//   - snackbar.go: transient footer messages
//
// # Pages
//
//   - Home: the demo payload with an inferred schema
//   - Settings: watched directories with an explicit column config
//   - Largest: /api/largest with an inferred schema
//   - Progress: running scans from /api/progress, fetched on each tick
//   - Logs: the application's own JSON log lines
//
// A drawer item without a supplier shows "Content for <label>"; with nothing
// selected the content area reads "Content for non-selected".
//
// # Layout
//
// At LayoutPermanentDrawerWidth columns and above the drawer is docked on the
// left. Narrower terminals hide it; m opens it as a modal list and selecting
// a page closes it again.
//
// # Event Flow
//
//  1. Run builds the model and starts the program
//  2. Store updates are relayed into the program as snapshot messages
//  3. A tick reloads the log file or the scan progress while that page is shown
//  4. Settings actions run as commands and report back through the snackbar
//  5. Context cancellation shuts the program down
//
// # Key Bindings
//
//   - 1-5, tab, shift+tab: switch pages
//   - m: open the drawer on narrow terminals
//   - /: search, enter applies, esc clears
//   - n, x, s, i: new watch, remove watch, queue scan, scan totals (settings page)
//   - r: reload page
//   - T: cycle theme
//   - h or ?: help
//   - e or Ctrl+C: exit
package ui
