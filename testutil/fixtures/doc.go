// Package fixtures builds trip records and marketplace entities for tests.
package fixtures
