//go:build memocache_debug

package memocache

const debugging = true

func assert(cond bool, message string) {
	if !cond {
		panic(message)
	}
}
