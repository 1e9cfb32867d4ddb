//go:build !linux

package embed

// fadviseSequential is a no-op on platforms without posix_fadvise.
func fadviseSequential(fd int, offset, length int64) {
}
