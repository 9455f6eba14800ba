// Package update is the device controller: the bubbletea model that owns
// navigation, routes wheel input to whichever subsystem holds the top of the
// stack, and arbitrates between playback, the game and the focus timer.
package update

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/harmonica"
	"github.com/rs/zerolog"

	"github.com/hveldt/retropod/internal/bounce"
	"github.com/hveldt/retropod/internal/config"
	"github.com/hveldt/retropod/internal/focus"
	"github.com/hveldt/retropod/internal/library"
	"github.com/hveldt/retropod/internal/menu"
	"github.com/hveldt/retropod/internal/model"
	"github.com/hveldt/retropod/internal/nav"
	"github.com/hveldt/retropod/internal/player"
	"github.com/hveldt/retropod/internal/remote"
	"github.com/hveldt/retropod/internal/storage"
	"github.com/hveldt/retropod/internal/wheel"
)

// statusTimeout is how long a transient status line stays up.
const statusTimeout = 3 * time.Second

type StatusBar struct {
	Text    string
	IsError bool
}

type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	Hold      key.Binding
	Back      key.Binding
	PlayPause key.Binding
	Next      key.Binding
	Prev      key.Binding
	SeekFwd   key.Binding
	SeekBack  key.Binding
	VolUp     key.Binding
	VolDown   key.Binding
	Quit      key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Hold:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "hold select")),
		Back:      key.NewBinding(key.WithKeys("esc", "m"), key.WithHelp("esc/m", "menu")),
		PlayPause: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Next:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Prev:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		SeekFwd:   key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("shift+→", "seek fwd")),
		SeekBack:  key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("shift+←", "seek back")),
		VolUp:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		VolDown:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back, k.PlayPause, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Hold, k.Back},
		{k.PlayPause, k.Next, k.Prev, k.SeekFwd, k.SeekBack},
		{k.VolUp, k.VolDown, k.Quit},
	}
}

// playerEventMsg wraps one engine event drained from the channel pump. ok is
// false once the engine shut the channel, which stops the pump.
type playerEventMsg struct {
	ev player.Event
	ok bool
}

// focusTickMsg drives the focus timer one second at a time. seq stamps the
// arming generation; ticks from a superseded generation are dropped so pauses
// and resets can never leave two clocks running.
type focusTickMsg struct {
	seq int
}

// frameTickMsg drives the game simulation. at is the delivery time the frame
// delta is computed from.
type frameTickMsg struct {
	seq int
	at  time.Time
}

type clearStatusMsg struct {
	seq int
}

// editState is the working copy of the setting being edited. Scroll mutates
// it; backing out commits it.
type editState struct {
	active  bool
	setting nav.Setting
	focus   model.FocusSettings
	shuffle bool
	repeat  player.RepeatMode
	theme   string
}

type searchState struct {
	query        string
	letterCursor int
	matches      []storage.Track
	matchCursor  int
}

// searchLetters is the letter strip: the alphabet plus space and rubout.
var searchLetters = []rune("abcdefghijklmnopqrstuvwxyz␣⌫")

// Config wires the controller to its collaborators. Everything is required
// except Session and Now, which default to the no-op session and time.Now.
type Config struct {
	Repo      storage.Repository
	Library   *library.Library
	Transport *player.Transport
	EngineC   <-chan player.Event
	Game      *bounce.Engine
	Timer     *focus.Timer
	Prefs     *config.Prefs
	Session   remote.Session
	Log       zerolog.Logger
	Now       func() time.Time
}

type Model struct {
	stack     nav.Stack
	repo      storage.Repository
	lib       *library.Library
	transport *player.Transport
	engineC   <-chan player.Event
	game      *bounce.Engine
	timer     *focus.Timer
	hold      *wheel.Recognizer
	prefs     *config.Prefs
	session   remote.Session
	log       zerolog.Logger
	now       func() time.Time

	// Read caches refreshed after every library write.
	tracks    []storage.Track
	playlists []storage.Playlist
	sessions  []storage.FocusSession
	focusSet  model.FocusSettings

	status    StatusBar
	statusSeq int
	focusSeq  int
	frameSeq  int
	lastFrame time.Time

	edit    editState
	search  searchState
	loading bool
	about   string

	// The rendered paddle eases toward the simulated angle with a spring,
	// so whole-step rotation does not look like teleporting.
	paddleSpring harmonica.Spring
	paddleAnim   float64
	paddleVel    float64

	playBar  progress.Model
	focusBar progress.Model
	spin     spinner.Model
	helpView help.Model
	keys     KeyMap
	quitting bool
}

// NewModel builds the controller, loads the library caches and the persisted
// focus settings, and pushes the device preferences into the transport.
func NewModel(cfg Config) Model {
	if cfg.Session == nil {
		cfg.Session = remote.NoopSession{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	m := Model{
		stack:     nav.New(),
		repo:      cfg.Repo,
		lib:       cfg.Library,
		transport: cfg.Transport,
		engineC:   cfg.EngineC,
		game:      cfg.Game,
		timer:     cfg.Timer,
		hold:      wheel.NewRecognizer(wheel.DefaultThreshold),
		prefs:     cfg.Prefs,
		session:   cfg.Session,
		log:       cfg.Log.With().Str("component", "update").Logger(),
		now:       cfg.Now,
		focusSet:  model.DefaultFocusSettings(),
		playBar:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		focusBar:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		spin:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		helpView:  help.New(),
		keys:      DefaultKeyMap(),

		paddleSpring: harmonica.NewSpring(harmonica.FPS(30), 12.0, 1.0),
	}
	m.paddleAnim = m.game.Snapshot().PaddleDeg

	ctx := context.Background()
	m.reloadLibrary(ctx)

	if set, err := m.repo.GetFocusSettings(ctx); errors.Is(err, storage.ErrNotFound) {
		// First run; the defaults stand until a setting is edited.
	} else if err != nil {
		m.log.Warn().Err(err).Msg("loading focus settings failed, using defaults")
	} else {
		m.focusSet = model.FocusSettings{
			WorkMinutes:       set.WorkMinutes,
			ShortBreakMinutes: set.ShortBreakMinutes,
			LongBreakMinutes:  set.LongBreakMinutes,
			LongBreakInterval: set.LongBreakInterval,
			AutoContinue:      set.AutoContinue,
		}
	}
	m.timer.ApplySettings(m.focusSet)

	m.transport.SetVolume(m.prefs.Volume)
	m.transport.SetShuffle(m.prefs.Shuffle)
	m.transport.SetRepeat(player.ParseRepeatMode(m.prefs.Repeat))
	return m
}

// reloadLibrary refreshes the track and playlist caches. On failure the stale
// cache stays; browsing outdated rows beats browsing none.
func (m *Model) reloadLibrary(ctx context.Context) {
	tracks, err := m.lib.Tracks(ctx)
	if err != nil {
		m.log.Error().Err(err).Msg("listing tracks failed")
	} else {
		m.tracks = tracks
	}
	playlists, err := m.lib.Playlists(ctx)
	if err != nil {
		m.log.Error().Err(err).Msg("listing playlists failed")
	} else {
		m.playlists = playlists
	}
}

// menuSnapshot assembles the read-only view menus resolve against.
func (m Model) menuSnapshot() menu.Snapshot {
	st := m.transport.State()
	_, hasCurrent := st.Current()
	return menu.Snapshot{
		Tracks:     m.tracks,
		Playlists:  m.playlists,
		Focus:      m.focusSet,
		Shuffle:    st.Shuffle,
		Repeat:     st.Repeat.String(),
		Theme:      m.prefs.Theme,
		HighScore:  m.game.Snapshot().HighScore,
		HasCurrent: hasCurrent,
	}
}

// rows resolves the top frame's menu.
func (m Model) rows() []menu.Action {
	return menu.Resolve(m.stack.Top().Route, m.menuSnapshot())
}
