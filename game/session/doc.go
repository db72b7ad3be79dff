// Package session manages mission sessions for the T-1000 mission game.
//
// Every session owns one mission controller, which in turn owns one engine.
// The manager creates sessions with 4-character hex IDs, looks them up
// case-insensitively and stops their controllers when they are deleted or
// expire.
//
// Persistence:
//
// With a SessionPersistence attached, the manager writes a session file on
// creation and again after every resolved mission. Only metadata and the
// mission history are stored; a restored session starts idle. FilePersistence
// keeps one JSON file per session and takes a flock on a sibling lock file
// around every read and write.
//
// Usage:
//
//	persistence, _ := session.NewFilePersistence("sessions")
//	manager := session.NewManagerWithPersistence(persistence, configManager,
//		session.WithPublisher(hub))
//
//	sess, err := manager.Create("", "classic", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//	sess.Controller.StartMission(ctx)
package session
