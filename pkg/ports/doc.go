/*
Package ports defines the driven ports (interfaces) of the order bot.

These interfaces decouple the coordinator from its external collaborators, so the
same conversation logic runs against Redis or memory, a real CMS or a fake one,
Telegram or plain HTTP.

# Key Interfaces

  - SessionStore: per-user state and cart identity (StateStore + CartStore).
  - Catalog: the REST content backend (products, carts, cart items, clients).
  - Messenger: renders replies for one inbound event.
  - DistributedLocker: serializes a user across coordinator replicas.
*/
package ports
