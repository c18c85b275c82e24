package sqlinline

const QSelectSessionPlanByUserID = `--sql 9008dda0-93e2-4f33-af74-da7a3543f0cd
select user_id, username, plan, messages_used, tokens_used
from sessions
where user_id = $1::text;
`

const QSelectSessionPlanByUsername = `--sql 3a8963eb-b953-4816-b7e6-98b498278abf
select user_id, username, plan, messages_used, tokens_used
from sessions
where lower(username) = lower($1::text);
`

const QUpdateSessionPlan = `--sql 18b3d4c1-1e9d-4363-ac7c-57858d8c9600
update sessions
set plan = $2::text,
    messages_used = case when $3::boolean then messages_used else 0 end,
    tokens_used = case when $3::boolean then tokens_used else 0 end,
    updated_at = now()
where user_id = $1::text
returning user_id, username, plan, messages_used, tokens_used;
`
