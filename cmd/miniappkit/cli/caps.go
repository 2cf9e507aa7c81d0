package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/miniappkit/miniappkit/sdk/compat"
)

var (
	capsPlatform string
	capsVersion  string
)

var capsCmd = &cobra.Command{
	Use:   "caps",
	Short: "Show what a host platform and version supports",
	Long: `Print the capability availability for a host platform and version
pair without connecting to anything.`,
	RunE: runCaps,
}

func init() {
	capsCmd.Flags().StringVar(&capsPlatform, "platform", "ios", "Host platform")
	capsCmd.Flags().StringVar(&capsVersion, "host-version", "6.0", "Host version")
}

func runCaps(cmd *cobra.Command, args []string) error {
	table := compat.NewTable(capsPlatform, capsVersion)

	capabilities := []compat.Capability{
		compat.CapabilityMainButton,
		compat.CapabilityBackButton,
		compat.CapabilitySendData,
		compat.CapabilityOpenLink,
		compat.CapabilityOpenInvoice,
		compat.CapabilityHeaderColor,
		compat.CapabilityBackgroundColor,
		compat.CapabilityClosingConfirmation,
		compat.CapabilityPopup,
		compat.CapabilityClipboardRead,
		compat.CapabilitySwitchInlineQuery,
		compat.CapabilityHapticFeedback,
		compat.CapabilityViewport,
		compat.CapabilityTheme,
	}
	sort.Slice(capabilities, func(i, j int) bool {
		return capabilities[i] < capabilities[j]
	})

	fmt.Printf("Host: %s %s\n\n", capsPlatform, capsVersion)
	for _, c := range capabilities {
		status := "unsupported"
		if table.Supports(c) {
			status = "supported"
		}
		fmt.Printf("%-22s %s\n", c, status)
	}
	return nil
}
