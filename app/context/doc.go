// Package context contains the application context shared by the app and cli
// packages. It only exists to break the import cycle between them.
package context
