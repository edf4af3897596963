// Package handler is the HTTP layer behind the router.
//
// Handlers bind and validate requests through the validation package,
// call the service layer and write JSON. Missing resources become 404
// errs.HTTPError values here; every other error is left to the global
// error handler.
package handler
