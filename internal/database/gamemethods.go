package database

// GamesTable stores the per-game metadata, keyed by the ROM file basename
const GamesTable = "games"

// Columns of the games table
const (
	ColumnFilename       = "filename"
	ColumnName           = "name"
	ColumnFavorite       = "favorite"
	ColumnMultiplayer    = "multiplayer"
	ColumnFinish         = "finish"
	ColumnScore          = "score"
	ColumnPlayed         = "played"
	ColumnPlayTime       = "play_time"
	ColumnLastLaunchDate = "last_launch_date"
	ColumnLastLaunchTime = "last_launch_time"
	ColumnEmulator       = "emulator"
	ColumnArguments      = "arguments"
	ColumnKey            = "key"
	ColumnTags           = "tags"
	ColumnCover          = "cover"
)

// DefaultRenamedColumns maps current games columns to the names older
// databases used for them
var DefaultRenamedColumns = map[string]string{
	"last_launch_date": "last_play",
	"last_launch_time": "last_play_time",
	"played":           "play",
}

func (d *Database) GetGame(filename string) (Row, error) {
	return d.Get(GamesTable, Row{ColumnFilename: filename})
}

func (d *Database) SaveGame(filename string, data Row) error {
	values := make(Row, len(data))
	for key, value := range data {
		if key != ColumnFilename {
			values[key] = value
		}
	}
	return d.Modify(GamesTable, values, Row{ColumnFilename: filename})
}

// CounterColumns are the columns a finished session updates
var CounterColumns = []string{ColumnPlayed, ColumnPlayTime, ColumnLastLaunchDate, ColumnLastLaunchTime}

// SaveCounters writes the play counters of data and leaves the other columns
// of the row alone
func (d *Database) SaveCounters(filename string, data Row) error {
	values := make(Row, len(CounterColumns))
	for _, column := range CounterColumns {
		if value, ok := data[column]; ok {
			values[column] = value
		}
	}
	return d.Modify(GamesTable, values, Row{ColumnFilename: filename})
}

func (d *Database) RemoveGame(filename string) error {
	return d.Remove(GamesTable, Row{ColumnFilename: filename})
}

// RenameEmulators rewrites the emulator override of every game from an old
// emulator identifier to its new one
func (d *Database) RenameEmulators(mapping map[string]string) error {
	return d.ReplaceValues(GamesTable, ColumnEmulator, mapping)
}
