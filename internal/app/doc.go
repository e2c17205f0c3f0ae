// Package app provides the orchestration layer for mpconsole.
//
// # Overview
//
// This package wires together configuration, logging, the sizes client, the
// shared store, the background poller and the UI. It is the composition root
// where all dependencies are initialized and connected.
//
// # Architecture
//
//  1. Apply an optional .env file, then load ~/.config/mpconsole/config.toml
//  2. Build the zap logger (file only, the terminal belongs to the TUI)
//  3. Load the theme and last page from prefs.toml
//  4. Create the sizes HTTP client and the shared state.Store
//  5. Launch the background poller
//  6. Start the TUI and block until the user exits or the context cancels
//
// # Components
//
//   - app.go: Run and poll interval selection
//   - poller.go: background goroutine refreshing watches and largest entries
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()      TOML + env overrides
//	       ├─────> logging.New()      zap JSON file logger
//	       ├─────> sizes.NewClient()  HTTP client
//	       ├─────> state.Store{}      Shared state container
//	       ├─────> StartPoller()      Background updates
//	       └─────> ui.Run()           Start TUI (blocks)
//
//	Background Poller Loop:
//	┌─────────────────────────────────────────┐
//	│ StartPoller() goroutine                 │
//	│  ├─> ListWatches()                      │
//	│  ├─> FetchLargest()                     │
//	│  └─> store.Update()                     │
//	│      └─> subscribers get a Snapshot     │
//	└─────────────────────────────────────────┘
//
// # Polling Behavior
//
// The first poll runs immediately. After a success the next one waits the
// configured interval; after n consecutive failures it waits interval*2^n,
// capped at 30 seconds (or the interval itself when that is longer).
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Unreadable .env or config file
//   - Log file that cannot be created
//   - Malformed API base URL
//
// Recoverable errors (logged, polling continues):
//   - Backend unreachable or returning errors
//   - Malformed responses
//
// # Usage Example
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	if err := app.Run(ctx, app.Options{PollEvery: 5}); err != nil {
//		log.Fatalf("mpconsole failed: %v", err)
//	}
package app
