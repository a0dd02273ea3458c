// Package types defines the Product and Order records, the Gateway and
// Repository interfaces, the synchronization result, and the standard errors
// shared by the connected and disconnected depot implementations.
package types
