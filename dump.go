package arena

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

// Dump writes the state of the region chain in human-readable form.
// It has no effect on the arena.
func (a *Arena) Dump(w io.Writer) error {
	if a.deleted {
		_, err := fmt.Fprintf(w, "Arena %s (deleted)\n", a.id)
		return err
	}

	stats := a.Stats()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Arena %s at %p\n", a.id, a.hdr)
	fmt.Fprintf(tw, "last region:\t%d\n", a.last)
	fmt.Fprintf(tw, "new region capacity:\t%s (%d)\n", ibytes(stats.RegionCapacity), stats.RegionCapacity)
	fmt.Fprintf(tw, "reserved:\t%s\n", ibytes(stats.BytesReserved))
	fmt.Fprintf(tw, "used:\t%s of %s (%.1f%%)\n",
		ibytes(stats.BytesUsed),
		ibytes(stats.BytesCapacity),
		a.Usage())
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "REGION\tBASE\tTAIL\tCAPACITY\tFREE\tBLOCK\t")

	for _, info := range a.Regions() {
		name := fmt.Sprintf("%d", info.Index)
		if info.Embedded {
			name += " (embedded)"
		}
		fmt.Fprintf(tw, "%s\t%#x\t%d\t%d\t%d\t%s\t\n",
			name,
			info.Base,
			info.Tail,
			info.Capacity,
			info.Capacity-info.Tail,
			ibytes(info.BlockSize),
		)
	}

	return tw.Flush()
}

func (a *Arena) String() string {
	if a.deleted {
		return "Arena{deleted}"
	}
	stats := a.Stats()
	return fmt.Sprintf(
		"Arena{regions: %d, reserved: %s, used: %s, free: %s, usage: %.1f%%}",
		stats.Regions,
		ibytes(stats.BytesReserved),
		ibytes(stats.BytesUsed),
		ibytes(stats.BytesFree),
		a.Usage(),
	)
}

func ibytes(n int) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n)) //nolint:gosec // clamped above
}
