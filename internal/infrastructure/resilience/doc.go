/*
Package resilience provides the circuit breaker guarding the remote launcher.

# States

	Closed --[FailureThreshold consecutive failures]-> Open
	Open --[Cooldown elapsed]-> Half-Open
	Half-Open --[Probes successes]-> Closed
	Half-Open --[any failure]-> Open

Context cancellation is never counted as a failure: an open request abandoned
by the user says nothing about the launcher's health.

# Usage

	breaker := resilience.New("launcher", resilience.Settings{
		FailureThreshold: 5,
		Cooldown:         30 * time.Second,
	})

	req, err := resilience.Call(ctx, breaker, func(ctx context.Context) (Response, error) {
		return client.Request(ctx)
	})
*/
package resilience
