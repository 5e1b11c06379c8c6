package postgres

const schemaSQL = `
CREATE TABLE IF NOT EXISTS admin_service_event (
    id BIGSERIAL PRIMARY KEY,
    event_type TEXT NOT NULL,
    data BYTEA
);

CREATE TABLE IF NOT EXISTS admin_event_circuit_proposal (
    event_id BIGINT PRIMARY KEY REFERENCES admin_service_event (id) ON DELETE CASCADE,
    proposal_type TEXT NOT NULL,
    circuit_id TEXT NOT NULL,
    circuit_hash TEXT NOT NULL,
    requester BYTEA NOT NULL,
    requester_node_id TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS admin_event_proposed_circuit (
    event_id BIGINT PRIMARY KEY REFERENCES admin_service_event (id) ON DELETE CASCADE,
    circuit_id TEXT NOT NULL,
    authorization_type TEXT NOT NULL,
    persistence TEXT NOT NULL,
    durability TEXT NOT NULL,
    routes TEXT NOT NULL,
    circuit_management_type TEXT NOT NULL,
    application_metadata BYTEA,
    comments TEXT,
    display_name TEXT
);

CREATE TABLE IF NOT EXISTS admin_event_proposed_service (
    event_id BIGINT NOT NULL REFERENCES admin_service_event (id) ON DELETE CASCADE,
    service_id TEXT NOT NULL,
    service_type TEXT NOT NULL,
    node_id TEXT NOT NULL,
    PRIMARY KEY (event_id, service_id)
);

CREATE TABLE IF NOT EXISTS admin_event_proposed_service_argument (
    event_id BIGINT NOT NULL,
    service_id TEXT NOT NULL,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (event_id, service_id, position),
    FOREIGN KEY (event_id, service_id)
        REFERENCES admin_event_proposed_service (event_id, service_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS admin_event_proposed_node (
    event_id BIGINT NOT NULL REFERENCES admin_service_event (id) ON DELETE CASCADE,
    node_id TEXT NOT NULL,
    PRIMARY KEY (event_id, node_id)
);

CREATE TABLE IF NOT EXISTS admin_event_proposed_node_endpoint (
    event_id BIGINT NOT NULL,
    node_id TEXT NOT NULL,
    endpoint TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (event_id, node_id, position),
    FOREIGN KEY (event_id, node_id)
        REFERENCES admin_event_proposed_node (event_id, node_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS admin_event_vote_record (
    event_id BIGINT NOT NULL REFERENCES admin_service_event (id) ON DELETE CASCADE,
    voter_public_key BYTEA NOT NULL,
    vote TEXT NOT NULL,
    voter_node_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (event_id, voter_node_id)
);

CREATE INDEX IF NOT EXISTS idx_admin_event_proposed_circuit_management_type
    ON admin_event_proposed_circuit (circuit_management_type);
`
