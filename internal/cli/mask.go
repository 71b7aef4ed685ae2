package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nloeffler/chaosgame/pkg/chaos"
)

// maskCommand creates the mask command for inspecting exclusion masks.
func (c *CLI) maskCommand() *cobra.Command {
	var targets int
	var last int

	cmd := &cobra.Command{
		Use:   "mask [offsets...]",
		Short: "Show how an exclusion mask rotates around the polygon (debug tool)",
		Long: `Show the absolute vertices an exclusion rule forbids.

Offsets are relative to the last chosen vertex: offset 0 is that vertex
itself, offset 1 its counter-clockwise neighbor, and so on. For every
possible last vertex the rotated mask and the remaining choices are
printed.`,
		Example: `  # Forbid revisiting the last vertex on a hexagon
  chaosgame mask 0

  # The hexweb rule: offsets 1, 3 and 5
  chaosgame mask 1,3,5 --targets 6

  # Only the rotation for last vertex 2
  chaosgame mask 1,3,5 --last 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("at least one offset required")
			}

			if targets < chaos.MinTargets || targets > chaos.MaxTargets {
				return fmt.Errorf("targets must be in [%d, %d], got %d", chaos.MinTargets, chaos.MaxTargets, targets)
			}

			offsets, err := parseOffsets(args)
			if err != nil {
				return err
			}
			for _, off := range offsets {
				if off < 0 || off >= targets {
					return fmt.Errorf("offset %d outside [0, %d)", off, targets)
				}
			}
			if last >= targets {
				return fmt.Errorf("last vertex %d outside [0, %d)", last, targets)
			}

			relative := chaos.MaskOf(offsets...)

			printSuccess("Exclusion mask resolved")
			printKeyValue("Targets", strconv.Itoa(targets))
			printKeyValue("Relative", maskString(relative, targets))
			if relative.Covers(targets) {
				printWarning("mask forbids every vertex - no rotation leaves a choice")
			}
			printNewline()

			for k := range targets {
				if last >= 0 && k != last {
					continue
				}
				rotated := relative.Rotate(targets, k)
				printKeyValue(
					fmt.Sprintf("Last %d", k),
					fmt.Sprintf("%s  allows %s", maskString(rotated, targets), allowedString(rotated, targets)),
				)
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&targets, "targets", "n", chaos.DefaultNumTargets, "number of polygon vertices")
	cmd.Flags().IntVarP(&last, "last", "l", -1, "show only the rotation for this last vertex")

	return cmd
}

// parseOffsets parses args like "1,3,5" or "1" "3" "5" into offsets.
func parseOffsets(args []string) ([]int, error) {
	var result []int
	for _, arg := range args {
		for _, p := range strings.Split(arg, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, fmt.Errorf("invalid offset %q", p)
			}
			result = append(result, n)
		}
	}
	return result, nil
}

// maskString renders a mask as bits, vertex n-1 on the left, vertex 0 on
// the right.
func maskString(m chaos.Mask, n int) string {
	var b strings.Builder
	for i := n - 1; i >= 0; i-- {
		if m.Has(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// allowedString lists the vertices a rotated mask still permits.
func allowedString(m chaos.Mask, n int) string {
	var allowed []string
	for i := range n {
		if !m.Has(i) {
			allowed = append(allowed, strconv.Itoa(i))
		}
	}
	if len(allowed) == 0 {
		return "nothing"
	}
	return "{" + strings.Join(allowed, ",") + "}"
}
