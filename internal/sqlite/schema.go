package sqlite

// Schema DDL for game state.
const (
	createArtifacts = `CREATE TABLE IF NOT EXISTS artifacts (
    artifact_id INTEGER PRIMARY KEY,
    kind TEXT NOT NULL CHECK (kind IN ('original', 'copy')),
    original_ref INTEGER,
    created_at TEXT NOT NULL,
    FOREIGN KEY (original_ref) REFERENCES artifacts(artifact_id)
);`

	createStakes = `CREATE TABLE IF NOT EXISTS stakes (
    artifact_id INTEGER PRIMARY KEY,
    amount TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (artifact_id) REFERENCES artifacts(artifact_id)
);`

	createContests = `CREATE TABLE IF NOT EXISTS contests (
    contest_id TEXT PRIMARY KEY,
    seq INTEGER NOT NULL,
    original_id INTEGER NOT NULL,
    challenger TEXT NOT NULL,
    defender TEXT NOT NULL,
    challenger_stake TEXT NOT NULL,
    defender_stake TEXT NOT NULL,
    win_probability TEXT NOT NULL,
    draw REAL NOT NULL,
    challenger_won INTEGER NOT NULL,
    stake_after TEXT NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (original_id) REFERENCES artifacts(artifact_id)
);`

	createVictories = `CREATE TABLE IF NOT EXISTS victories (
    event_id TEXT PRIMARY KEY,
    holder TEXT NOT NULL,
    original_id INTEGER NOT NULL,
    created_at TEXT NOT NULL
);`
)

// Schema DDL for the local ledger and registry. These stand in for the
// external collaborators when the game runs from the CLI.
const (
	createBalances = `CREATE TABLE IF NOT EXISTS balances (
    address TEXT PRIMARY KEY,
    amount TEXT NOT NULL
);`

	createAllowances = `CREATE TABLE IF NOT EXISTS allowances (
    address TEXT PRIMARY KEY,
    amount TEXT NOT NULL
);`

	createOwners = `CREATE TABLE IF NOT EXISTS owners (
    artifact_id INTEGER PRIMARY KEY,
    address TEXT NOT NULL
);`

	createCounters = `CREATE TABLE IF NOT EXISTS counters (
    name TEXT NOT NULL,
    label TEXT NOT NULL,
    value REAL NOT NULL,
    PRIMARY KEY (name, label)
);`
)

// Index DDL for common queries.
const (
	idxContestsOriginal = `CREATE INDEX IF NOT EXISTS idx_contests_original ON contests(original_id, seq);`
	idxVictoriesHolder  = `CREATE INDEX IF NOT EXISTS idx_victories_holder ON victories(holder);`
	idxOwnersAddress    = `CREATE INDEX IF NOT EXISTS idx_owners_address ON owners(address);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createArtifacts,
	createStakes,
	createContests,
	createVictories,
	createBalances,
	createAllowances,
	createOwners,
	createCounters,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxContestsOriginal,
	idxVictoriesHolder,
	idxOwnersAddress,
}

// reserveAddress is the balances row holding the value pulled into the game.
const reserveAddress = "__reserve__"
