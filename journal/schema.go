package journal

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	label TEXT NOT NULL,
	instrument TEXT NOT NULL,
	is_long INTEGER NOT NULL,
	command TEXT NOT NULL,
	amount REAL NOT NULL,
	requested_amount REAL NOT NULL,
	open_price REAL NOT NULL,
	close_price REAL NOT NULL,
	stop_loss REAL NOT NULL,
	take_profit REAL NOT NULL,
	profit_loss_pips REAL NOT NULL,
	state TEXT NOT NULL,
	comment TEXT NOT NULL,
	creation_time DATETIME NOT NULL,
	fill_time DATETIME NOT NULL,
	close_time DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_instrument ON orders(instrument);
CREATE INDEX IF NOT EXISTS idx_orders_label ON orders(label);
`
