// Package kafka ties the protocol catalog to a byte boundary. Importing it
// registers every api kind of the protocol package, and its Codec decodes
// request frames and produces framed responses, including the error
// responses owed to peers when a request cannot be served.
package kafka

import (
	_ "github.com/kwire/kafka-protocol/protocol/apiversions"
	_ "github.com/kwire/kafka-protocol/protocol/controlledshutdown"
	_ "github.com/kwire/kafka-protocol/protocol/createtopics"
	_ "github.com/kwire/kafka-protocol/protocol/deletetopics"
	_ "github.com/kwire/kafka-protocol/protocol/describegroups"
	_ "github.com/kwire/kafka-protocol/protocol/fetch"
	_ "github.com/kwire/kafka-protocol/protocol/findcoordinator"
	_ "github.com/kwire/kafka-protocol/protocol/heartbeat"
	_ "github.com/kwire/kafka-protocol/protocol/joingroup"
	_ "github.com/kwire/kafka-protocol/protocol/leaderandisr"
	_ "github.com/kwire/kafka-protocol/protocol/leavegroup"
	_ "github.com/kwire/kafka-protocol/protocol/listgroups"
	_ "github.com/kwire/kafka-protocol/protocol/listoffsets"
	_ "github.com/kwire/kafka-protocol/protocol/metadata"
	_ "github.com/kwire/kafka-protocol/protocol/offsetcommit"
	_ "github.com/kwire/kafka-protocol/protocol/offsetfetch"
	_ "github.com/kwire/kafka-protocol/protocol/produce"
	_ "github.com/kwire/kafka-protocol/protocol/saslhandshake"
	_ "github.com/kwire/kafka-protocol/protocol/stopreplica"
	_ "github.com/kwire/kafka-protocol/protocol/syncgroup"
	_ "github.com/kwire/kafka-protocol/protocol/updatemetadata"
)
