package diagram

import "fmt"

// boardColumns is the number of devices packed per board row.
const boardColumns = 2

// DefaultMainSwitchRating is the main switch rating, in amps, used when a board does not state one.
const DefaultMainSwitchRating = 100.0

// LayoutConfig holds every spacing constant used by the generators. All values are
// integer pixels in document space.
type LayoutConfig struct {
	// Single-line canvas.
	CanvasWidth  int `yaml:"canvas_width"`
	CenterX      int `yaml:"center_x"`
	TopMargin    int `yaml:"top_margin"`
	BottomMargin int `yaml:"bottom_margin"`
	// BlockGap separates the supply block from the protective device.
	BlockGap int `yaml:"block_gap"`

	SupplyWidth  int `yaml:"supply_width"`
	SupplyHeight int `yaml:"supply_height"`
	MCBWidth     int `yaml:"mcb_width"`
	MCBHeight    int `yaml:"mcb_height"`
	// RCBOHeight must not be smaller than MCBHeight: the RCBO carries an extra label row.
	RCBOWidth  int `yaml:"rcbo_width"`
	RCBOHeight int `yaml:"rcbo_height"`

	// CableRun is the fixed vertical length of the cable element; CableWidth is its
	// footprint width and CableGap the space left before the load.
	CableRun   int `yaml:"cable_run"`
	CableWidth int `yaml:"cable_width"`
	CableGap   int `yaml:"cable_gap"`

	LoadWidth   int `yaml:"load_width"`
	LoadHeight  int `yaml:"load_height"`
	EarthWidth  int `yaml:"earth_width"`
	EarthHeight int `yaml:"earth_height"`

	// Distribution board view.
	BoardMargin         int `yaml:"board_margin"`
	BoardWidth          int `yaml:"board_width"`
	BoardHeaderHeight   int `yaml:"board_header_height"`
	BoardRowHeight      int `yaml:"board_row_height"`
	BoardDeviceOffsetX  int `yaml:"board_device_offset_x"`
	BoardDevicePaddingY int `yaml:"board_device_padding_y"`
	BoardColumnSpacing  int `yaml:"board_column_spacing"`

	// EnumerateConnections adds device-to-cable, cable-to-load and load-to-earth
	// connections to single-line documents. Off by default: those links are implied by
	// adjacency and only the supply-to-device connection is emitted.
	EnumerateConnections bool `yaml:"enumerate_connections"`
}

// DefaultLayoutConfig returns the stock spacing.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		CanvasWidth:  800,
		CenterX:      400,
		TopMargin:    40,
		BottomMargin: 40,
		BlockGap:     40,

		SupplyWidth:  200,
		SupplyHeight: 60,
		MCBWidth:     80,
		MCBHeight:    100,
		RCBOWidth:    80,
		RCBOHeight:   130,

		CableRun:   150,
		CableWidth: 20,
		CableGap:   20,

		LoadWidth:   120,
		LoadHeight:  80,
		EarthWidth:  60,
		EarthHeight: 40,

		BoardMargin:         40,
		BoardWidth:          400,
		BoardHeaderHeight:   100,
		BoardRowHeight:      140,
		BoardDeviceOffsetX:  60,
		BoardDevicePaddingY: 5,
		BoardColumnSpacing:  160,
	}
}

// DeviceHeightDelta is the extra vertical space an RCBO takes over an MCB.
func (c LayoutConfig) DeviceHeightDelta() int {
	return c.RCBOHeight - c.MCBHeight
}

// Validate checks that the constants produce non-overlapping, in-bounds layouts.
func (c LayoutConfig) Validate() error {
	positive := []struct {
		name  string
		value int
	}{
		{"canvas_width", c.CanvasWidth},
		{"supply_width", c.SupplyWidth},
		{"supply_height", c.SupplyHeight},
		{"mcb_width", c.MCBWidth},
		{"mcb_height", c.MCBHeight},
		{"rcbo_width", c.RCBOWidth},
		{"rcbo_height", c.RCBOHeight},
		{"cable_run", c.CableRun},
		{"cable_width", c.CableWidth},
		{"load_width", c.LoadWidth},
		{"load_height", c.LoadHeight},
		{"earth_width", c.EarthWidth},
		{"earth_height", c.EarthHeight},
		{"board_width", c.BoardWidth},
		{"board_header_height", c.BoardHeaderHeight},
		{"board_row_height", c.BoardRowHeight},
		{"board_column_spacing", c.BoardColumnSpacing},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidLayoutConfig, p.name)
		}
	}
	nonNegative := []struct {
		name  string
		value int
	}{
		{"center_x", c.CenterX},
		{"top_margin", c.TopMargin},
		{"bottom_margin", c.BottomMargin},
		{"block_gap", c.BlockGap},
		{"cable_gap", c.CableGap},
		{"board_margin", c.BoardMargin},
		{"board_device_offset_x", c.BoardDeviceOffsetX},
		{"board_device_padding_y", c.BoardDevicePaddingY},
	}
	for _, p := range nonNegative {
		if p.value < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidLayoutConfig, p.name)
		}
	}
	if c.RCBOHeight < c.MCBHeight {
		return fmt.Errorf("%w: rcbo_height %d smaller than mcb_height %d", ErrInvalidLayoutConfig, c.RCBOHeight, c.MCBHeight)
	}
	for _, width := range []int{c.SupplyWidth, c.MCBWidth, c.RCBOWidth, c.CableWidth, c.LoadWidth, c.EarthWidth} {
		left := c.CenterX - width/2
		if left < 0 || left+width > c.CanvasWidth {
			return fmt.Errorf("%w: a %dpx block centred on x=%d does not fit a %dpx canvas", ErrInvalidLayoutConfig, width, c.CenterX, c.CanvasWidth)
		}
	}

	deviceWidth := max(c.MCBWidth, c.RCBOWidth)
	if c.BoardColumnSpacing < deviceWidth {
		return fmt.Errorf("%w: board_column_spacing %d narrower than a device", ErrInvalidLayoutConfig, c.BoardColumnSpacing)
	}
	if c.BoardDeviceOffsetX+(boardColumns-1)*c.BoardColumnSpacing+deviceWidth > c.BoardWidth {
		return fmt.Errorf("%w: board_width %d cannot hold %d device columns", ErrInvalidLayoutConfig, c.BoardWidth, boardColumns)
	}
	if c.BoardDevicePaddingY+c.RCBOHeight > c.BoardRowHeight {
		return fmt.Errorf("%w: board_row_height %d shorter than a padded device", ErrInvalidLayoutConfig, c.BoardRowHeight)
	}
	return nil
}
