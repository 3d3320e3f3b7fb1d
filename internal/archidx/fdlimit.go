package archidx

import (
	"fmt"
	"math"

	"golang.org/x/sys/unix"
)

// FDLimit returns a conservative bound on how many archive handles this
// process should hold open concurrently, derived from the process's
// RLIMIT_NOFILE soft limit the same way the teacher's fdLimits sizes its
// file-descriptor cache: half the soft limit, leaving headroom for
// stdio, log files, and the HTTP listener's own connections.
func FDLimit() (int, error) {
	var rlim unix.Rlimit

	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlim); err != nil {
		return 0, fmt.Errorf("failed to get rlimit: %w", err)
	}

	if rlim.Cur == unix.RLIM_INFINITY {
		rlim.Cur = 1 << 20
	}

	if rlim.Cur == 0 {
		return 0, fmt.Errorf("got invalid rlimit: %d", rlim.Cur)
	}

	if rlim.Cur > math.MaxInt {
		return 0, fmt.Errorf("rlimit too large: %d", rlim.Cur)
	}

	limit := int(rlim.Cur) / 2
	if limit < 1 {
		limit = 1
	}

	return limit, nil
}

// ClampToFDLimit caps workers at the fd-derived limit, falling back to
// workers unchanged if the limit cannot be determined (e.g. on platforms
// without RLIMIT_NOFILE semantics).
func ClampToFDLimit(workers int) int {
	limit, err := FDLimit()
	if err != nil || limit <= 0 {
		return workers
	}

	if workers > limit {
		return limit
	}

	return workers
}
