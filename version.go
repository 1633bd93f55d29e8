package orderbot

// Version is set at build time with -ldflags "-X github.com/aretw0/orderbot.Version=...".
var Version = "dev"
