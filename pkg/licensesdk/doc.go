// Package licensesdk is the Go client for the licensor license authority.
//
// The Client speaks the public license protocol (activate, deactivate,
// status and the update feed) and never returns transport errors directly:
// every call yields a Result, whether it failed on the network, came back
// with a non-2xx status, or carried a body that was not JSON.
//
//	c := licensesdk.New("https://licensor.example.com", licensesdk.Environment{
//		ClientVersion: "2.4.0",
//		URL:           "https://shop.example.com",
//	})
//	res := c.Activate(ctx, rawKey)
//	if res.OK && res.Status() == licensesdk.StatusValid {
//		// entitled until res.Expires() (0 = never)
//	}
//
// Development domains (localhost, *.local, *.test) are answered locally
// without a network call unless WithDevBypass(false) is given.
//
// AdminClient wraps the operator API under /v1/admin and requires a bearer
// token carrying the licenses:read or licenses:write scope.
package licensesdk
