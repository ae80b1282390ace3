// Package formkit wires the retained widget engine to a drawing backend.
//
// Configuration comes from formkit.toml. The backend is the native renderer
// library when it can be loaded, the terminal otherwise, or a headless window
// for tests and tooling.
//
//	cfg, err := formkit.LoadConfig("")
//	app, err := formkit.NewApp(cfg)
//	defer app.Close()
//	app.Window.MustAddChild(retained.NewButton("OK"))
//	err = app.Run(ctx)
package formkit

// Version is the formkit release.
const Version = "0.1.0"
