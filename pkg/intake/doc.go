// Package intake provides payload encoding and HTTP delivery for record batches.
//
// This package joins record values into a single payload, optionally
// compresses it, and POSTs it to the intake service's input endpoint.
// It supports custom HTTP clients for testing and alternative transport
// mechanisms.
//
// # Usage
//
// Create an encoder and a client:
//
//	encoder, err := intake.NewEncoder(true, 6)
//	if err != nil {
//	    return err
//	}
//
//	client := intake.NewClient(httpClient, intake.Endpoint{
//	    Host:   "intake.example.com",
//	    Port:   80,
//	    APIKey: "api-key",
//	}, logger)
//
//	payload, ok, err := encoder.Encode(values)
//	if err != nil || !ok {
//	    return err
//	}
//	if err := client.Send(ctx, payload); err != nil {
//	    return err
//	}
//
// # Wire Format
//
// Record values are joined with commas, so JSON object records form a
// stream the service splits server-side. With compression enabled the
// joined payload is gzipped and then base64-encoded; the request still
// carries Content-Encoding: gzip, which the receiving service pairs
// with a base64 decode step.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package intake
