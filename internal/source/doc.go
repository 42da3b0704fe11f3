// Package source locates template sources by identifier.
//
// A Locator returns the source of a template, or false if it has none.
// Three locators are provided:
//   - Map - in-memory sources, mostly for tests and inline partials
//   - FS - files under a directory, optionally watched for changes
//   - Redis - string keys under a prefix
//
// Example usage:
//
//	fsSource := source.NewFS("/etc/templates", ".hbs", logger)
//	if err := fsSource.Watch(engine.Invalidate); err != nil {
//	    log.Fatal(err)
//	}
//	defer fsSource.Close()
//
//	engine := template.NewEngine(template.WithLocator(source.Chain{fsSource, redisSource}))
package source
