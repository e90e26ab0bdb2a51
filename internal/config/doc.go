// Package config provides configuration management for phishguard.
package config
