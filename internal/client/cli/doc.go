// Package cli provides the interactive clipshare command-line client.
//
// The App joins one session at a time and exposes the clipboard through a
// small REPL: text, code and files are sealed before they leave the device,
// listed from the local mirror when the relay is unreachable, and items that
// cannot be decrypted are shown with an [UNREADABLE] marker instead of failing
// the whole listing.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
