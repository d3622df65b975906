package repository

// SchemaStatements are the idempotent DDL run at startup. Candles use a
// ReplacingMergeTree keyed by (symbol, tf, bucket) so replayed imports
// and repeated consumer deliveries collapse to one row per bar.
var SchemaStatements = []string{
	`CREATE DATABASE IF NOT EXISTS swingsight`,
	`CREATE TABLE IF NOT EXISTS ` + candlesTable + ` (
        bucket DateTime,
        symbol LowCardinality(String),
        tf     LowCardinality(String),
        open   Float64,
        high   Float64,
        low    Float64,
        close  Float64,
        vol    Float64
    ) ENGINE = ReplacingMergeTree
    PARTITION BY toYYYYMM(bucket)
    ORDER BY (symbol, tf, bucket)`,
	`CREATE TABLE IF NOT EXISTS ` + signalsTable + ` (
        ts         DateTime,
        symbol     LowCardinality(String),
        tf         LowCardinality(String),
        action     LowCardinality(String),
        regime     LowCardinality(String),
        close      Float64,
        support    Float64,
        resistance Float64,
        note       String
    ) ENGINE = MergeTree
    PARTITION BY toYYYYMM(ts)
    ORDER BY (symbol, ts)`,
}
