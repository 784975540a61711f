//go:build !memocache_debug

package memocache

const debugging = false

func assert(bool, string) {}
