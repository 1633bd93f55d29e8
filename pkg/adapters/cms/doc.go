/*
Package cms is a typed client for the REST content backend (a Strapi-style API).

Every request carries a bearer token, bodies travel inside a {"data": ...} envelope and
any non-2xx response is surfaced as *RemoteError with the status and raw body.
The client never retries; callers that want retries wrap it.
*/
package cms
