package sqlinline

const QCreateWebsitesTable = `--sql 3c918de7-0012-41be-8bc8-2c9e0201144a
create table if not exists websites (
    id text primary key,
    profile jsonb not null,
    status text not null,
    payment jsonb,
    error text not null default '',
    created_at timestamptz not null,
    delivered_at timestamptz
);
`

const QCreateModificationsTable = `--sql 3ada6490-3f54-4212-8d48-acf900e6bd66
create table if not exists website_modifications (
    seq bigserial primary key,
    id text not null unique,
    website_id text not null references websites(id) on delete cascade,
    command text not null,
    selector text not null,
    value text not null,
    page text not null,
    created_at timestamptz not null
);
`

const QCreateModificationsIndex = `--sql a3bdc3cc-50b4-4e62-80e8-b7a1602f643b
create index if not exists website_modifications_website_idx
    on website_modifications (website_id, seq);
`

const QInsertWebsite = `--sql efb23faa-e89c-47ae-94f1-6605400a0846
insert into websites (id, profile, status, payment, created_at)
values ($1, $2, $3, $4, $5);
`

const QGetWebsite = `--sql 09eb184a-2fda-4ceb-89f8-e992b37c8f77
select id, profile, status, payment, error, created_at, delivered_at
from websites
where id = $1;
`

const QListModifications = `--sql 1139fb07-b015-4cda-b2cf-5df5ad94d77e
select id, command, selector, value, page, created_at
from website_modifications
where website_id = $1
order by seq asc;
`

// QInsertModification inserts nothing when the website is unknown.
const QInsertModification = `--sql 3ae8d95f-21db-4562-aa95-0e67f19330e4
insert into website_modifications (id, website_id, command, selector, value, page, created_at)
select $1, $2, $3, $4, $5, $6, $7
where exists (select 1 from websites where id = $2);
`

// QUpdateWebsiteStatus only applies when the row still carries the status the
// caller read, so concurrent transitions cannot both win.
const QUpdateWebsiteStatus = `--sql 38f33416-7f7e-46d7-b030-23f7a9a79d8e
update websites
set status = $2, error = $3, delivered_at = $4, payment = $5
where id = $1 and status = $6;
`
