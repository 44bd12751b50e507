package protocol

import "math"

// The catalog describes the request and response layouts of every supported
// api key, field for field, as of Kafka 0.10.1. Field names follow the
// protocol documentation.

var partitionStateLayout = NewLayout("PartitionState",
	F("topic", String),
	F("partition", Int32),
	F("controller_epoch", Int32),
	F("leader", Int32),
	F("leader_epoch", Int32),
	F("isr", ArrayOf(Int32)),
	F("zk_version", Int32),
	F("replicas", ArrayOf(Int32)),
)

var topicPartitionErrorLayout = NewLayout("PartitionError",
	F("topic", String),
	F("partition", Int32),
	F("error_code", Int16),
)

var topicErrorLayout = NewLayout("TopicError",
	F("topic", String),
	F("error_code", Int16),
)

var catalog = [numApis]struct {
	minVersion int16
	maxVersion int16
	request    *Layout
	response   *Layout
}{
	Produce: {0, 2,
		NewLayout("ProduceRequest",
			F("acks", Int16),
			F("timeout", Int32),
			F("topic_data", ArrayOf(NewLayout("TopicProduceData",
				F("topic", String),
				F("data", ArrayOf(NewLayout("PartitionProduceData",
					F("partition", Int32),
					F("record_set", Bytes),
				))),
			))),
		),
		NewLayout("ProduceResponse",
			F("responses", ArrayOf(NewLayout("TopicProduceResponse",
				F("topic", String),
				F("partition_responses", ArrayOf(NewLayout("PartitionProduceResponse",
					F("partition", Int32),
					F("error_code", Int16),
					F("base_offset", Int64),
					F("timestamp", Int64).Since(2).Or(NoTimestamp),
				))),
			))),
			F("throttle_time_ms", Int32).Since(1),
		),
	},

	Fetch: {0, 3,
		NewLayout("FetchRequest",
			F("replica_id", Int32),
			F("max_wait_time", Int32),
			F("min_bytes", Int32),
			F("max_bytes", Int32).Since(3).Or(int32(math.MaxInt32)),
			F("topics", ArrayOf(NewLayout("TopicFetchData",
				F("topic", String),
				F("partitions", ArrayOf(NewLayout("PartitionFetchData",
					F("partition", Int32),
					F("fetch_offset", Int64),
					F("max_bytes", Int32),
				))),
			))),
		),
		NewLayout("FetchResponse",
			F("throttle_time_ms", Int32).Since(1),
			F("responses", ArrayOf(NewLayout("TopicFetchResponse",
				F("topic", String),
				F("partition_responses", ArrayOf(NewLayout("PartitionFetchResponse",
					F("partition_header", NewLayout("PartitionFetchHeader",
						F("partition", Int32),
						F("error_code", Int16),
						F("high_watermark", Int64),
					)),
					F("record_set", Bytes),
				))),
			))),
		),
	},

	ListOffsets: {0, 1,
		NewLayout("ListOffsetRequest",
			F("replica_id", Int32),
			F("topics", ArrayOf(NewLayout("TopicListOffsetRequest",
				F("topic", String),
				F("partitions", ArrayOf(NewLayout("PartitionListOffsetRequest",
					F("partition", Int32),
					F("timestamp", Int64),
					F("max_num_offsets", Int32).Until(0).Or(int32(1)),
				))),
			))),
		),
		NewLayout("ListOffsetResponse",
			F("responses", ArrayOf(NewLayout("TopicListOffsetResponse",
				F("topic", String),
				F("partition_responses", ArrayOf(NewLayout("PartitionListOffsetResponse",
					F("partition", Int32),
					F("error_code", Int16),
					F("offsets", ArrayOf(Int64)).Until(0),
					F("timestamp", Int64).Since(1).Or(NoTimestamp),
					F("offset", Int64).Since(1).Or(int64(-1)),
				))),
			))),
		),
	},

	Metadata: {0, 2,
		NewLayout("MetadataRequest",
			F("topics", ArrayOf(String)).Until(0),
			F("topics", NullableArrayOf(String)).Since(1),
		),
		NewLayout("MetadataResponse",
			F("brokers", ArrayOf(NewLayout("Broker",
				F("node_id", Int32),
				F("host", String),
				F("port", Int32),
				F("rack", NullableString).Since(1),
			))),
			F("cluster_id", NullableString).Since(2),
			F("controller_id", Int32).Since(1).Or(int32(-1)),
			F("topic_metadata", ArrayOf(NewLayout("TopicMetadata",
				F("topic_error_code", Int16),
				F("topic", String),
				F("is_internal", Boolean).Since(1),
				F("partition_metadata", ArrayOf(NewLayout("PartitionMetadata",
					F("partition_error_code", Int16),
					F("partition_id", Int32),
					F("leader", Int32),
					F("replicas", ArrayOf(Int32)),
					F("isr", ArrayOf(Int32)),
				))),
			))),
		),
	},

	LeaderAndIsr: {0, 0,
		NewLayout("LeaderAndIsrRequest",
			F("controller_id", Int32),
			F("controller_epoch", Int32),
			F("partition_states", ArrayOf(partitionStateLayout)),
			F("live_leaders", ArrayOf(NewLayout("LiveLeader",
				F("id", Int32),
				F("host", String),
				F("port", Int32),
			))),
		),
		NewLayout("LeaderAndIsrResponse",
			F("error_code", Int16),
			F("partitions", ArrayOf(topicPartitionErrorLayout)),
		),
	},

	StopReplica: {0, 0,
		NewLayout("StopReplicaRequest",
			F("controller_id", Int32),
			F("controller_epoch", Int32),
			F("delete_partitions", Boolean),
			F("partitions", ArrayOf(NewLayout("StopReplicaPartition",
				F("topic", String),
				F("partition", Int32),
			))),
		),
		NewLayout("StopReplicaResponse",
			F("error_code", Int16),
			F("partitions", ArrayOf(topicPartitionErrorLayout)),
		),
	},

	UpdateMetadata: {0, 2,
		NewLayout("UpdateMetadataRequest",
			F("controller_id", Int32),
			F("controller_epoch", Int32),
			F("partition_states", ArrayOf(partitionStateLayout)),
			F("live_brokers", ArrayOf(NewLayout("LiveBroker",
				F("id", Int32),
				F("host", String).Until(0),
				F("port", Int32).Until(0),
				F("end_points", ArrayOf(NewLayout("EndPoint",
					F("port", Int32),
					F("host", String),
					F("security_protocol_type", Int16),
				))).Since(1),
				F("rack", NullableString).Since(2),
			))),
		),
		NewLayout("UpdateMetadataResponse",
			F("error_code", Int16),
		),
	},

	ControlledShutdown: {1, 1,
		NewLayout("ControlledShutdownRequest",
			F("broker_id", Int32),
		),
		NewLayout("ControlledShutdownResponse",
			F("error_code", Int16),
			F("partitions_remaining", ArrayOf(NewLayout("RemainingPartition",
				F("topic", String),
				F("partition", Int32),
			))),
		),
	},

	OffsetCommit: {0, 2,
		NewLayout("OffsetCommitRequest",
			F("group_id", String),
			F("group_generation_id", Int32).Since(1).Or(int32(-1)),
			F("member_id", String).Since(1),
			F("retention_time", Int64).Since(2).Or(int64(-1)),
			F("topics", ArrayOf(NewLayout("TopicOffsetCommit",
				F("topic", String),
				F("partitions", ArrayOf(NewLayout("PartitionOffsetCommit",
					F("partition", Int32),
					F("offset", Int64),
					F("timestamp", Int64).Since(1).Until(1).Or(NoTimestamp),
					F("metadata", NullableString),
				))),
			))),
		),
		NewLayout("OffsetCommitResponse",
			F("responses", ArrayOf(NewLayout("TopicOffsetCommitResponse",
				F("topic", String),
				F("partition_responses", ArrayOf(NewLayout("PartitionOffsetCommitResponse",
					F("partition", Int32),
					F("error_code", Int16),
				))),
			))),
		),
	},

	OffsetFetch: {0, 1,
		NewLayout("OffsetFetchRequest",
			F("group_id", String),
			F("topics", ArrayOf(NewLayout("TopicOffsetFetch",
				F("topic", String),
				F("partitions", ArrayOf(NewLayout("PartitionOffsetFetch",
					F("partition", Int32),
				))),
			))),
		),
		NewLayout("OffsetFetchResponse",
			F("responses", ArrayOf(NewLayout("TopicOffsetFetchResponse",
				F("topic", String),
				F("partition_responses", ArrayOf(NewLayout("PartitionOffsetFetchResponse",
					F("partition", Int32),
					F("offset", Int64),
					F("metadata", NullableString),
					F("error_code", Int16),
				))),
			))),
		),
	},

	FindCoordinator: {0, 0,
		NewLayout("GroupCoordinatorRequest",
			F("group_id", String),
		),
		NewLayout("GroupCoordinatorResponse",
			F("error_code", Int16),
			F("coordinator", NewLayout("Coordinator",
				F("node_id", Int32),
				F("host", String),
				F("port", Int32),
			)),
		),
	},

	JoinGroup: {0, 1,
		NewLayout("JoinGroupRequest",
			F("group_id", String),
			F("session_timeout", Int32),
			F("rebalance_timeout", Int32).Since(1),
			F("member_id", String),
			F("protocol_type", String),
			F("group_protocols", ArrayOf(NewLayout("GroupProtocol",
				F("protocol_name", String),
				F("protocol_metadata", Bytes),
			))),
		),
		NewLayout("JoinGroupResponse",
			F("error_code", Int16),
			F("generation_id", Int32),
			F("group_protocol", String),
			F("leader_id", String),
			F("member_id", String),
			F("members", ArrayOf(NewLayout("JoinGroupMember",
				F("member_id", String),
				F("member_metadata", Bytes),
			))),
		),
	},

	Heartbeat: {0, 0,
		NewLayout("HeartbeatRequest",
			F("group_id", String),
			F("group_generation_id", Int32),
			F("member_id", String),
		),
		NewLayout("HeartbeatResponse",
			F("error_code", Int16),
		),
	},

	LeaveGroup: {0, 0,
		NewLayout("LeaveGroupRequest",
			F("group_id", String),
			F("member_id", String),
		),
		NewLayout("LeaveGroupResponse",
			F("error_code", Int16),
		),
	},

	SyncGroup: {0, 0,
		NewLayout("SyncGroupRequest",
			F("group_id", String),
			F("generation_id", Int32),
			F("member_id", String),
			F("group_assignment", ArrayOf(NewLayout("MemberAssignment",
				F("member_id", String),
				F("member_assignment", Bytes),
			))),
		),
		NewLayout("SyncGroupResponse",
			F("error_code", Int16),
			F("member_assignment", Bytes),
		),
	},

	DescribeGroups: {0, 0,
		NewLayout("DescribeGroupsRequest",
			F("group_ids", ArrayOf(String)),
		),
		NewLayout("DescribeGroupsResponse",
			F("groups", ArrayOf(NewLayout("GroupMetadata",
				F("error_code", Int16),
				F("group_id", String),
				F("state", String),
				F("protocol_type", String),
				F("protocol", String),
				F("members", ArrayOf(NewLayout("GroupMember",
					F("member_id", String),
					F("client_id", String),
					F("client_host", String),
					F("member_metadata", Bytes),
					F("member_assignment", Bytes),
				))),
			))),
		),
	},

	ListGroups: {0, 0,
		NewLayout("ListGroupsRequest"),
		NewLayout("ListGroupsResponse",
			F("error_code", Int16),
			F("groups", ArrayOf(NewLayout("ListedGroup",
				F("group_id", String),
				F("protocol_type", String),
			))),
		),
	},

	SaslHandshake: {0, 0,
		NewLayout("SaslHandshakeRequest",
			F("mechanism", String),
		),
		NewLayout("SaslHandshakeResponse",
			F("error_code", Int16),
			F("enabled_mechanisms", ArrayOf(String)),
		),
	},

	ApiVersions: {0, 0,
		NewLayout("ApiVersionsRequest"),
		NewLayout("ApiVersionsResponse",
			F("error_code", Int16),
			F("api_versions", ArrayOf(NewLayout("ApiVersion",
				F("api_key", Int16),
				F("min_version", Int16),
				F("max_version", Int16),
			))),
		),
	},

	CreateTopics: {0, 0,
		NewLayout("CreateTopicsRequest",
			F("create_topic_requests", ArrayOf(NewLayout("CreateTopic",
				F("topic", String),
				F("num_partitions", Int32),
				F("replication_factor", Int16),
				F("replica_assignment", ArrayOf(NewLayout("ReplicaAssignment",
					F("partition_id", Int32),
					F("replicas", ArrayOf(Int32)),
				))),
				F("configs", ArrayOf(NewLayout("TopicConfig",
					F("config_key", String),
					F("config_value", String),
				))),
			))),
			F("timeout", Int32),
		),
		NewLayout("CreateTopicsResponse",
			F("topic_error_codes", ArrayOf(topicErrorLayout)),
		),
	},

	DeleteTopics: {0, 0,
		NewLayout("DeleteTopicsRequest",
			F("topics", ArrayOf(String)),
			F("timeout", Int32),
		),
		NewLayout("DeleteTopicsResponse",
			F("topic_error_codes", ArrayOf(topicErrorLayout)),
		),
	},
}

func init() {
	for i := range catalog {
		c := &catalog[i]
		t := &apiTypes[i]
		t.minVersion = c.minVersion
		t.maxVersion = c.maxVersion
		for v := c.minVersion; v <= c.maxVersion; v++ {
			t.requests = append(t.requests, c.request.Schema(v))
			t.responses = append(t.responses, c.response.Schema(v))
		}
	}
}

// SchemaFor returns the schema of messages of the given api key, version and
// direction. A pair that the catalog does not describe is reported as an
// *UnsupportedVersionError.
func SchemaFor(k ApiKey, version int16, dir Direction) (*Schema, error) {
	s := k.apiType().schema(dir, version)
	if s == nil {
		return nil, &UnsupportedVersionError{ApiKey: k, Version: version}
	}
	return s, nil
}

// RequestSchema returns the schema of requests of api key k at version.
func RequestSchema(k ApiKey, version int16) (*Schema, error) {
	return SchemaFor(k, version, RequestDirection)
}

// ResponseSchema returns the schema of responses of api key k at version.
func ResponseSchema(k ApiKey, version int16) (*Schema, error) {
	return SchemaFor(k, version, ResponseDirection)
}
