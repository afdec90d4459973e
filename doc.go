/*
Package engine runs a graph of audio processors in real time.

Concept

The engine processes audio in periods: fixed-size buffers of frames which
must be produced before the device needs them. Every period, each processor
of the graph is invoked exactly once, after all processors it reads from.

    Processor - unit of work with audio and event ports;
    Graph - audio and event wires between processor ports;
    Executor - compiled graph, runs one period at a time.

Building

A graph is built from wires. Several wires may feed the same audio input,
mixers are inserted when the graph is finalized. Identity processors are
spliced out:

    var g graph.Graph
    g.Audio.Insert(graph.At(in, 0), graph.At(gain, 0))
    g.Audio.Insert(graph.At(gain, 0), graph.At(out, 0))

Rebuild finalizes a copy of the graph, compiles it into a task DAG and
creates an executor. If there are workers, tasks are distributed between
them with a lock-free stack:

    e, err := engine.New(engine.WithWorkers(2))
    err = e.Rebuild(ctx, &g)

Execution

Process runs one period and is called by the device thread. When the engine
is started, the executor of the next rebuild is picked up at the beginning
of a period and the previous one is handed back to the rebuilder. Rebuild
returns once the previous executor is retired, so processors can be dropped
safely:

    e.Start()
    // device thread: e.Process(periodSize)
    err = e.Rebuild(ctx, &changed)
    e.Stop()

When stopped, Rebuild installs executors immediately and Process may be
called from the rebuilding goroutine, which is the way offline rendering
works.
*/
package engine
