// Package worker implements the render worker lifecycle and Redis Streams integration.
//
// The worker subscribes to Redis Streams for render requests, renders them with
// the template engine, and publishes the output back to a result stream.
//
// Example usage:
//
//	cfg, _ := config.Load()
//	redisClient := redis.NewClient(&redis.Options{...})
//	engine := template.NewEngine(template.WithLocator(locator))
//
//	worker := worker.NewWorker(cfg, redisClient, engine, logger)
//	if err := worker.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer worker.Stop()
//
// A request message carries a JSON "data" field:
//
//	{"request_id": "42", "template": "mail/welcome", "data": {"name": "Ann"}}
//	{"source": "Hello {{name}}", "data": {"name": "Ann"}}
//
// The worker handles:
//   - Redis Streams subscription and consumer group management
//   - Render request processing
//   - Result publishing to RESULT_STREAM
//   - Error reporting to RESULT_STREAM.errors
//   - Graceful shutdown
//
// Health checks are provided via a separate HTTP server:
//
//	healthServer := worker.NewHealthServer(8083, redisClient, logger)
//	healthServer.Start()
//	defer healthServer.Stop()
package worker
