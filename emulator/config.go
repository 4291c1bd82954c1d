package emulator

import (
	"io"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config describes the board the emulator models.
type Config struct {
	RamSize  int `toml:"ram_size"`  // Ram size, in bytes.
	ClockHz  int `toml:"clock_hz"`  // Cpu clock.
	BaudRate int `toml:"baud_rate"` // UART baud rate.
}

// DefaultConfig returns the configuration of the reference board.
func DefaultConfig() Config {
	return Config{
		RamSize:  6144,
		ClockHz:  12_000_000,
		BaudRate: 115200,
	}
}

// LoadConfig decodes a TOML configuration over the defaults.
func LoadConfig(r io.Reader) (config Config, err error) {
	config = DefaultConfig()

	md, err := toml.NewDecoder(r).Decode(&config)
	if err != nil {
		return
	}

	undecoded := md.Undecoded()
	if len(undecoded) != 0 {
		var keys []string
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		slices.Sort(keys)
		err = ErrConfigKey(strings.Join(keys, ", "))
		return
	}

	err = config.Validate()

	return
}

// Validate checks the configuration for consistency.
func (config Config) Validate() (err error) {
	switch {
	case config.RamSize <= 0 || config.RamSize%4 != 0:
		err = ErrConfigRamSize
	case config.ClockHz <= 0:
		err = ErrConfigClock
	case config.BaudRate <= 0 || config.BaudRate > config.ClockHz:
		err = ErrConfigBaud
	}
	return
}

// ClocksPerBit returns the number of Cpu clocks per UART bit.
func (config Config) ClocksPerBit() int {
	return max(config.ClockHz/max(config.BaudRate, 1), 1)
}
