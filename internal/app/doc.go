// Package app wires settings to the site loader and builder.
//
// # Basic Usage
//
//	settings := config.DefaultSettings()
//	settings.Source = "/home/me/photos"
//	settings.Destination = "/var/www/photos"
//
//	a, err := app.New(settings, log, func(event site.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := a.Run(ctx)
//
// Images are processed in-process unless an album configures an external
// command for a step; see package processor.
package app
