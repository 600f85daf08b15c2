// Package web serves the app's server-rendered settings form.
//
// The setup page collects a SquadCast API key and posts it as JSON to the add
// endpoint, then follows the URL the endpoint returns. Styles reuse the CLI's
// brand colors from the ui package.
package web
