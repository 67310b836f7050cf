// Package gateway turns inbound mail into ORION pages.
//
// A Gateway pulls messages from a Source, broadcasts each one as a page on
// the pager port, records it in a Journal and mails a confirmation back to
// the requester through a Sink. The subject line selects the destination
// address; anything that is not a valid dotted-quad pages every receiver.
//
//	source := gateway.NewMaildirSource("/var/mail/pager")
//	sink := gateway.NewSMTPSink(gateway.SMTPConfig{Server: "smtp.example.org", Port: 587})
//	gw, err := gateway.New(endpoint, source, sink, journal, gateway.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	err = gw.Run(ctx)
//
// MaildirSource and SMTPSink are the production adapters. Tests supply their
// own Source and Sink implementations.
package gateway
