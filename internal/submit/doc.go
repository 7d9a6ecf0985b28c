// Package submit delivers finished freight quote requests to a webhook.
//
// A Client posts the flat payload built by leadform.BuildPayload as a JSON
// object whose values are all strings. Network failures, timeouts, 429 and
// 5xx answers are retried with exponential backoff; any other answer ends
// the delivery at once. Each attempt is logged with its status code and a
// short snippet of the response body.
//
// # Errors
//
// Failures are returned as *Error, classified by ErrorType with a Retryable
// flag. ShortMessage and Hint turn them into text for the wizard and CLI.
//
// # Usage Example
//
//	client := submit.NewClient("https://hooks.example.com/quote")
//	client.SetRetry(2, 500*time.Millisecond)
//
//	receipt, err := sequencer.Submit(ctx, client)
//	if err != nil {
//	    fmt.Println(submit.ShortMessage(err))
//	}
package submit
