package contracts

import "time"

// TrackOrder selects how the tracks of a song are scheduled.
type TrackOrder int

const (
	// AutoOrder merges format 0 and 1 files and plays format 2 files sequentially.
	AutoOrder TrackOrder = iota
	// Merged plays all tracks together, ordered by absolute tick.
	Merged
	// Sequential plays each track to its end before the next one starts.
	Sequential
)

// DriftMode selects the reference point used to measure elapsed time before a wait.
type DriftMode int

const (
	// AbsoluteDrift measures elapsed time against a single playback origin.
	AbsoluteDrift DriftMode = iota
	// LocalDrift measures elapsed time since the end of the previous wait.
	LocalDrift
)

// MetaHandler receives display-only metadata events with their absolute tick.
type MetaHandler func(tick uint64, ev Event)

// PlayerOptions defines the configuration options for the player.
type PlayerOptions struct {
	Logger          Logger        // Logger for playback events and errors.
	LogLevel        LogLevel      // Level of logging to use.
	LogFilePath     string        // File path for logging if file logging is enabled.
	OutputConfig    *OutputConfig // Configuration of the output backend.
	TrackOrder      TrackOrder    // Track scheduling.
	DriftMode       DriftMode     // Elapsed time reference.
	Slice           time.Duration // Longest uninterrupted sleep while pacing.
	SpeedupNum      int64         // Pacing speedup numerator.
	SpeedupDen      int64         // Pacing speedup denominator.
	DefaultTempo    uint32        // Tempo assumed before the first tempo event; 0 keeps it undefined.
	MetaHandler     MetaHandler   // Optional receiver for metadata events.
	SkipInitialStop bool          // Do not send all-notes-off before playback starts.
}

// Option is a function that modifies PlayerOptions.
type Option func(*PlayerOptions)

// WithLogger sets the logger for the player.
func WithLogger(l Logger) Option {
	return func(opts *PlayerOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level.
func WithLogLevel(level LogLevel) Option {
	return func(opts *PlayerOptions) {
		opts.LogLevel = level
	}
}

// WithLogFilePath sends logs to the given file instead of the console.
func WithLogFilePath(path string) Option {
	return func(opts *PlayerOptions) {
		opts.LogFilePath = path
	}
}

// WithOutputConfig sets the output backend configuration.
func WithOutputConfig(config OutputConfig) Option {
	return func(opts *PlayerOptions) {
		opts.OutputConfig = &config
	}
}

// WithTrackOrder sets how tracks are scheduled.
func WithTrackOrder(order TrackOrder) Option {
	return func(opts *PlayerOptions) {
		opts.TrackOrder = order
	}
}

// WithDriftMode sets the elapsed time reference used by the pacing.
func WithDriftMode(mode DriftMode) Option {
	return func(opts *PlayerOptions) {
		opts.DriftMode = mode
	}
}

// WithSlice sets the longest sleep between two cancellation checks.
func WithSlice(d time.Duration) Option {
	return func(opts *PlayerOptions) {
		opts.Slice = d
	}
}

// WithSpeedup sets the pacing speedup as a fraction: 11/10 plays 1.1x faster than the file.
func WithSpeedup(num, den int64) Option {
	return func(opts *PlayerOptions) {
		opts.SpeedupNum = num
		opts.SpeedupDen = den
	}
}

// WithDefaultTempo assumes the given tempo until the file sets one.
func WithDefaultTempo(microsecondsPerBeat uint32) Option {
	return func(opts *PlayerOptions) {
		opts.DefaultTempo = microsecondsPerBeat
	}
}

// WithMetaHandler registers a receiver for track metadata (names, lyrics, markers).
func WithMetaHandler(h MetaHandler) Option {
	return func(opts *PlayerOptions) {
		opts.MetaHandler = h
	}
}

// WithoutInitialStop skips the all-notes-off sent before playback starts.
func WithoutInitialStop() Option {
	return func(opts *PlayerOptions) {
		opts.SkipInitialStop = true
	}
}
