/*
Package domain contains the core types of the order-taking conversation.

It is free of I/O: states, inbound events, outbound render instructions (replies),
catalog entities owned by the CMS backend and the sentinel errors shared by adapters.

# States

A user is always in exactly one StateName. The first contact and the reset command
both resolve to StateStart. Every handled event produces an Outcome carrying the
replies to render and the next state to commit.
*/
package domain
