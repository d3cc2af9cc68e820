// Package todo provides a typed client for the Microsoft To Do API
// (Microsoft Graph v1.0, me/todo).
//
// The client covers task lists and tasks: listing with server-side
// pagination, creation, reads, partial updates, deletion, and completing
// tasks. Every operation fetches a fresh bearer token from its TokenSource
// before issuing requests, so token renewal is invisible to callers.
//
// Non-2xx responses surface as *APIError carrying the HTTP status code and
// reason phrase:
//
//	tasks, err := client.ListTasks(ctx, listID, 0, todo.FilterNotCompleted)
//	if todo.IsNotFound(err) {
//	    // list was deleted remotely
//	}
//
// Timestamps on tasks come in two shapes. createdDateTime and
// lastModifiedDateTime are plain UTC ISO-8601 strings. The due, start,
// reminder and completed fields are zone-tagged objects whose timeZone may
// be a Windows display name; the accessor methods resolve those via the
// winzone package.
//
// The client performs no retries, caching, or rate limiting.
package todo
