// Package domain contains the value types shared by the classpath resolver,
// the scanner and the CLI. They carry names and class-file facts only and are
// free of filesystem or archive concerns.
package domain
