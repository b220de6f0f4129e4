// Package config handles configuration management for autofix.
//
// Configuration is layered, later sources overriding earlier ones:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the project file .vibecheck/autofix.toml or .vibecheck/autofix.yaml
//  3. a project .env file (never overriding variables already set)
//  4. AUTOFIX_* environment variables, with "__" separating sections,
//     e.g. AUTOFIX_ROLLBACK__RETAIN_TRANSACTIONS=20
package config
