// Package utils provides small helpers shared by the transport packages.
package utils
