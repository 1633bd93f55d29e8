/*
Package observability turns coordinator lifecycle hooks into Prometheus metrics and
structured log lines.

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := observability.Chain(metrics.Hooks(), observability.LogHooks(logger))
	r := runner.New(engine, sessions, runner.WithHooks(hooks))
*/
package observability
