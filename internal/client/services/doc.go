// Package services contains the application services behind the clipshare
// CLI: session membership (join, create, leave, devices) and clipboard items
// (send, sync, list, download, delete, export).
//
// Session keys never leave this process. Everything handed to the relay
// client or the local mirror is already sealed.
package services
